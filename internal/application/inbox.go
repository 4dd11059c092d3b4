package application

import (
	"context"
	"errors"

	"github.com/oksasatya/chessup-server/internal/domain/docpath"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
	repo "github.com/oksasatya/chessup-server/internal/domain/repository"
)

// SendOpening stamps the sender's email on op and appends it to the inbox of
// every recipient that exists. Recipients are handled one by one with no
// rollback; failures are logged and skipped, never reported to the sender.
// It returns how many inboxes received the opening.
func (s *Service) SendOpening(ctx context.Context, senderID string, emails []string, op *entity.Opening) (int, error) {
	sender, err := s.Repo.FindByID(ctx, senderID)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	op.CreatorEmail = sender.Email
	op.EnsureLists()

	delivered := 0
	for _, email := range emails {
		log := s.Logger.WithField("sender_id", senderID).WithField("recipient", email)

		recipient, err := s.Repo.FindByEmail(ctx, email)
		if errors.Is(err, repo.ErrNotFound) {
			log.Debug("share recipient not found")
			continue
		}
		if err != nil {
			log.WithError(err).Warn("share recipient lookup failed")
			continue
		}

		rid := recipient.ID.Hex()
		if err := s.mutate(ctx, rid, "receive_opening", func() error {
			return s.Repo.PushField(ctx, rid, docpath.Inbox(), op)
		}); err != nil {
			log.WithError(err).Warn("share delivery failed")
			continue
		}
		delivered++
		metricShares.Add(1)

		if s.Notifier != nil {
			n := ShareNotice{To: recipient.Email, From: sender.Email, OpeningName: op.Name}
			if err := s.Notifier.OpeningShared(ctx, n); err != nil {
				log.WithError(err).Warn("share notification failed")
			}
		}
	}
	return delivered, nil
}

func (s *Service) DeleteInboxMail(ctx context.Context, userID string, k docpath.Index) error {
	return s.mutate(ctx, userID, "delete_mail",
		func() error { return s.Repo.UnsetField(ctx, userID, docpath.InboxMail(k)) },
		func() error { return s.Repo.PullNulls(ctx, userID, docpath.Inbox()) },
	)
}
