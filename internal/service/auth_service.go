package service

import (
	"context"
	"strings"
	"time"

	"github.com/lexkit/lexdoc/internal/model"
	appErr "github.com/lexkit/lexdoc/internal/pkg/errors"
	"github.com/lexkit/lexdoc/internal/pkg/jwt"
	"github.com/lexkit/lexdoc/internal/pkg/password"
	"github.com/lexkit/lexdoc/internal/pkg/timeutil"
	"github.com/lexkit/lexdoc/internal/repo"
)

type AuthService struct {
	users     *repo.UserRepo
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users *repo.UserRepo, jwtSecret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, email, plainPassword string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || plainPassword == "" {
		return nil, appErr.ErrInvalid
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	user := &model.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			return "", nil, appErr.ErrUnauthorized
		}
		return "", nil, err
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return "", nil, appErr.ErrUnauthorized
	}
	token, err := jwt.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
