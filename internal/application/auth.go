package application

import (
	"context"
	"errors"
	"strings"

	"github.com/oksasatya/chessup-server/internal/domain/entity"
	repo "github.com/oksasatya/chessup-server/internal/domain/repository"
	"github.com/oksasatya/chessup-server/pkg/helpers"
)

// Signup creates a user and returns a login token for it.
//
// The email check and the insert are two separate store calls, so two
// concurrent signups with the same email can both succeed.
func (s *Service) Signup(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", Invalid(MsgMissingCredentials)
	}

	score, suggestions := s.Scorer.Score(password, []string{email})
	if score <= helpers.WeakPasswordScore {
		return "", &WeakPasswordError{Suggestions: suggestions}
	}

	_, err := s.Repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrDuplicateEmail
	case !errors.Is(err, repo.ErrNotFound):
		return "", err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return "", err
	}
	id, err := s.Repo.Insert(ctx, &entity.User{Email: email, Password: hash})
	if err != nil {
		return "", err
	}
	metricSignups.Add(1)

	if s.Index != nil {
		if err := s.Index.IndexUser(ctx, id, email); err != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("index user failed")
		}
	}
	return s.Tokens.IssueToken(id)
}

// Login verifies the credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", Invalid(MsgMissingCredentials)
	}
	u, err := s.Repo.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrWrongEmail
	}
	if err != nil {
		return "", err
	}
	if !s.Hasher.Verify(password, u.Password) {
		return "", ErrWrongPassword
	}
	metricLogins.Add(1)
	return s.Tokens.IssueToken(u.ID.Hex())
}
