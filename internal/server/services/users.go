package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/credgate/internal/common"
	"github.com/dmitrijs2005/credgate/internal/dbx"
	"github.com/dmitrijs2005/credgate/internal/server/auth"
	"github.com/dmitrijs2005/credgate/internal/server/models"
	"github.com/dmitrijs2005/credgate/internal/server/repositories/repomanager"
)

// UserService creates credential records.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher}
}

// Register hashes password and stores a new record. The returned user never
// carries the hash. A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}

	user := &models.User{Email: email, PasswordHash: hash}

	var created *models.User
	create := func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		created = u
		return nil
	}

	if s.db != nil {
		err = dbx.WithTx(ctx, s.db, nil, create)
	} else {
		err = create(ctx, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	out := *created
	out.PasswordHash = ""
	return &out, nil
}
