package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/loja_grid/internal/hash"
	"github.com/Skotchmaster/loja_grid/internal/models"
	"github.com/Skotchmaster/loja_grid/internal/repo"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserRepo interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

type Service struct {
	Users UserRepo
}

// Authenticate never tells an unknown username apart from a wrong password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Users.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SafeNext keeps post-login redirects on this site.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
