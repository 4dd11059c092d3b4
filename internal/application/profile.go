package application

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/oksasatya/chessup-server/internal/domain/docpath"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
	repo "github.com/oksasatya/chessup-server/internal/domain/repository"
)

// Fields a profile update may not touch.
var protectedFields = map[string]bool{
	"_id":      true,
	"password": true,
	"email":    true,
}

// GetProfile returns the caller's document without the password hash.
func (s *Service) GetProfile(ctx context.Context, userID string) (map[string]any, error) {
	if s.Cache != nil {
		p, ok, err := s.Cache.Get(ctx, userID)
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("profile cache read failed")
		} else if ok {
			return p, nil
		}
	}

	u, err := s.Repo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	p := u.Profile()

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, userID, p); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("profile cache write failed")
		}
	}
	return p, nil
}

// UpdateProfile merges top-level fields into the caller's document.
// Known structured fields are checked against their shape before storing.
func (s *Service) UpdateProfile(ctx context.Context, userID string, fields map[string]any) error {
	if len(fields) == 0 {
		return Invalid("The body must contain at least one field")
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]repo.FieldValue, 0, len(keys))
	for _, k := range keys {
		if protectedFields[k] {
			return Invalid("Field " + k + " cannot be updated")
		}
		p, err := docpath.ParseField(k)
		if err != nil {
			return Invalid("Invalid field name: " + k)
		}
		v, err := shapeField(k, fields[k])
		if err != nil {
			return err
		}
		updates = append(updates, repo.FieldValue{Path: p, Value: v})
	}

	return s.mutate(ctx, userID, "update_profile", func() error {
		return s.Repo.SetFields(ctx, userID, updates)
	})
}

func shapeField(name string, v any) (any, error) {
	switch name {
	case docpath.FieldOpenings, docpath.FieldInbox:
		var openings entity.Openings
		if err := reshape(v, &openings); err != nil {
			return nil, Invalid(name + " must be a list of openings")
		}
		if openings == nil {
			openings = entity.Openings{}
		}
		openings.EnsureLists()
		return openings, nil
	case docpath.FieldSettings:
		var settings map[string]any
		if err := reshape(v, &settings); err != nil {
			return nil, Invalid("settings must be an object")
		}
		for k := range settings {
			if _, err := docpath.ParseLabel(k); err != nil {
				return nil, Invalid("Invalid setting name: " + k)
			}
		}
		return settings, nil
	}
	return v, nil
}

func reshape(in any, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (s *Service) SetLanguage(ctx context.Context, userID string, language any) error {
	return s.mutate(ctx, userID, "set_language", func() error {
		return s.Repo.SetField(ctx, userID, docpath.Language(), language)
	})
}

func (s *Service) SetSetting(ctx context.Context, userID string, name docpath.Label, value any) error {
	return s.mutate(ctx, userID, "set_setting", func() error {
		return s.Repo.SetField(ctx, userID, docpath.Setting(name), value)
	})
}

// SearchUsers finds emails containing query, for picking share recipients.
// Without a search index it scans the collection.
func (s *Service) SearchUsers(ctx context.Context, query string, size int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, Invalid("Query parameter q is required")
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	if s.Index != nil {
		return s.Index.SearchEmails(ctx, query, size)
	}

	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]string, 0, size)
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u.Email)
			if len(out) == size {
				break
			}
		}
	}
	return out, nil
}
