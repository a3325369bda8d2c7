package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/credgate/internal/server"
	"github.com/dmitrijs2005/credgate/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	app, err := server.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
