// Package services contains server-side business logic. This file implements
// AuthService: credential checks against the store and session token issue.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/logging"
	"github.com/dmitrijs2005/plms/internal/server/auth"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/dmitrijs2005/plms/internal/server/repositories/repomanager"
)

// AuthService authenticates users and issues and validates session tokens.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	log         logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec, log logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		codec:       codec,
		log:         log.With("module", "auth"),
	}
}

// Login checks name and password and returns the user with a fresh session
// token.
//
// Errors:
//   - common.ErrorValidation when either field is empty. The store is not
//     touched.
//   - common.ErrorUnauthorized for an unknown or inactive user, a wrong
//     password, or a failing verification routine.
//   - common.ErrorInternal when the lookup or token encoding fails.
func (s *AuthService) Login(ctx context.Context, name, password string) (*models.User, string, error) {
	if name == "" || password == "" {
		return nil, "", common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetActiveUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		s.log.Error(ctx, "user lookup failed", "error", err)
		return nil, "", common.ErrorInternal
	}

	ok, err := repo.VerifyPassword(ctx, password, user.PasswordHash)
	if err != nil {
		s.log.Warn(ctx, "password verification failed", "user_id", user.ID, "error", err)
		return nil, "", common.ErrorUnauthorized
	}
	if !ok {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.codec.Encode(auth.Claims{UserID: user.ID, Name: user.Name, Role: user.Role})
	if err != nil {
		s.log.Error(ctx, "token encoding failed", "user_id", user.ID, "error", err)
		return nil, "", common.ErrorInternal
	}

	s.log.Info(ctx, "login succeeded", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// Session decodes a session token. Any rejected token yields
// common.ErrorUnauthorized. It never reads the store.
func (s *AuthService) Session(token string) (auth.Claims, error) {
	if token == "" {
		return auth.Claims{}, common.ErrorUnauthorized
	}
	claims, err := s.codec.Decode(token)
	if err != nil {
		return auth.Claims{}, common.ErrorUnauthorized
	}
	return claims, nil
}

// SessionMaxAge is the cookie Max-Age, in seconds, matching token expiry.
func (s *AuthService) SessionMaxAge() int {
	return int(s.codec.Validity().Seconds())
}
