// Command useradd creates a credential record in the PostgreSQL store.
//
//	useradd -d postgres://... [-b cost] [-email a@x.com]
//
// The password is read from the terminal without echo.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dmitrijs2005/credgate/internal/common"
	"github.com/dmitrijs2005/credgate/internal/dbx"
	"github.com/dmitrijs2005/credgate/internal/flagx"
	"github.com/dmitrijs2005/credgate/internal/prompt"
	"github.com/dmitrijs2005/credgate/internal/server/auth"
	"github.com/dmitrijs2005/credgate/internal/server/config"
	"github.com/dmitrijs2005/credgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/credgate/internal/server/services"
	"github.com/dmitrijs2005/credgate/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "useradd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}
	if cfg.DatabaseDSN == "" {
		return config.ErrMissingDSN
	}

	email := emailFlag(args)
	if email == "" {
		email, err = prompt.GetSimpleText(bufio.NewReader(os.Stdin), "Email", os.Stdout)
		if err != nil {
			return err
		}
	}

	password, err := prompt.GetNewPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	db, err := repomanager.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := dbx.Ping(ctx, db, 5*time.Second); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(db, rm, auth.NewBcryptHasher(cfg.BcryptCost))
	u, err := us.Register(ctx, email, string(password))
	if errors.Is(err, common.ErrorAlreadyExists) {
		return fmt.Errorf("user %s already exists", email)
	}
	if err != nil {
		return err
	}

	fmt.Printf("created user id=%d email=%s\n", u.ID, u.Email)
	return nil
}

// emailFlag returns the value of -email, leaving the rest to config.
func emailFlag(args []string) string {
	var email string

	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&email, "email", "", "email of the new user")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-email", "--email"}))

	return email
}
