package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/chessup-server/internal/domain/docpath"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
	repo "github.com/oksasatya/chessup-server/internal/domain/repository"
)

func (s *Service) AddOpening(ctx context.Context, userID string, op *entity.Opening) error {
	op.EnsureLists()
	return s.mutate(ctx, userID, "add_opening", func() error {
		return s.Repo.PushField(ctx, userID, docpath.Openings(), op)
	})
}

// DeleteOpening nulls the slot and then compacts the list. The two calls are
// not atomic: a concurrent reader may see the null, and a concurrent delete
// may shift indices between them.
func (s *Service) DeleteOpening(ctx context.Context, userID string, i docpath.Index) error {
	return s.mutate(ctx, userID, "delete_opening",
		func() error { return s.Repo.UnsetField(ctx, userID, docpath.Opening(i)) },
		func() error { return s.Repo.PullNulls(ctx, userID, docpath.Openings()) },
	)
}

func (s *Service) RenameOpening(ctx context.Context, userID string, i docpath.Index, name string) error {
	return s.mutate(ctx, userID, "rename_opening", func() error {
		return s.Repo.SetField(ctx, userID, docpath.OpeningName(i), name)
	})
}

func (s *Service) SetOpeningArchived(ctx context.Context, userID string, i docpath.Index, archived bool) error {
	return s.mutate(ctx, userID, "set_opening_archived", func() error {
		return s.Repo.SetField(ctx, userID, docpath.OpeningArchived(i), archived)
	})
}

func (s *Service) AddVariation(ctx context.Context, userID string, i docpath.Index, v *entity.Variation) error {
	return s.mutate(ctx, userID, "add_variation", func() error {
		return s.Repo.PushField(ctx, userID, docpath.Variations(i), v)
	})
}

func (s *Service) SetVariationArchived(ctx context.Context, userID string, i, j docpath.Index, archived bool) error {
	return s.mutate(ctx, userID, "set_variation_archived", func() error {
		return s.Repo.SetField(ctx, userID, docpath.VariationArchived(i, j), archived)
	})
}

func (s *Service) RenameVariation(ctx context.Context, userID string, i, j docpath.Index, name string) error {
	return s.mutate(ctx, userID, "rename_variation", func() error {
		return s.Repo.SetField(ctx, userID, docpath.VariationName(i, j), name)
	})
}

func (s *Service) SetVariationSubname(ctx context.Context, userID string, i, j docpath.Index, subname string) error {
	return s.mutate(ctx, userID, "set_variation_subname", func() error {
		return s.Repo.SetField(ctx, userID, docpath.VariationSubname(i, j), subname)
	})
}

// DeleteVariation nulls and compacts within the one opening's variation list.
func (s *Service) DeleteVariation(ctx context.Context, userID string, i, j docpath.Index) error {
	return s.mutate(ctx, userID, "delete_variation",
		func() error { return s.Repo.UnsetField(ctx, userID, docpath.Variation(i, j)) },
		func() error { return s.Repo.PullNulls(ctx, userID, docpath.Variations(i)) },
	)
}

func (s *Service) EditComment(ctx context.Context, userID string, i docpath.Index, move docpath.Label, text string) error {
	return s.mutate(ctx, userID, "edit_comment", func() error {
		return s.Repo.SetField(ctx, userID, docpath.Comment(i, move), text)
	})
}

func (s *Service) SetDrawBoard(ctx context.Context, userID string, i docpath.Index, move docpath.Label, value any) error {
	return s.mutate(ctx, userID, "set_draw_board", func() error {
		return s.Repo.SetField(ctx, userID, docpath.PdfBoard(i, move), value)
	})
}

// RenameVariationGroup renames every variation of opening i named oldName.
// Matches are found on a snapshot and renamed one set at a time.
func (s *Service) RenameVariationGroup(ctx context.Context, userID string, i docpath.Index, oldName, newName string) error {
	u, err := s.Repo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	op := u.Opening(int(i))
	if op == nil {
		return nil
	}

	var calls []func() error
	for j, v := range op.Variations {
		if v == nil || v.Name != oldName {
			continue
		}
		path := docpath.VariationName(i, docpath.Index(j))
		calls = append(calls, func() error { return s.Repo.SetField(ctx, userID, path, newName) })
	}
	if len(calls) == 0 {
		return nil
	}
	return s.mutate(ctx, userID, "rename_variation_group", calls...)
}

// UploadOpeningPDF stores an exported PDF and records its URL on the opening.
func (s *Service) UploadOpeningPDF(ctx context.Context, userID string, i docpath.Index, filename, contentType string, r io.Reader) (string, error) {
	if s.Storage == nil {
		return "", ErrFeatureDisabled
	}
	u, err := s.Repo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	if u.Opening(int(i)) == nil {
		return "", Invalid("Opening not found")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}
	objectPath := filepath.ToSlash(filepath.Join("exports", userID, uuid.NewString()+ext))
	url, err := s.Storage.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	err = s.mutate(ctx, userID, "upload_pdf", func() error {
		return s.Repo.SetField(ctx, userID, docpath.OpeningPdfURL(i), url)
	})
	if err != nil {
		return "", err
	}
	return url, nil
}
