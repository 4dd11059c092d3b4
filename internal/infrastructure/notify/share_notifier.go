// Package notify turns delivered shares into email jobs on the queue.
package notify

import (
	"context"
	"time"

	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/pkg/mailer"
	mailtpl "github.com/oksasatya/chessup-server/pkg/mailer/templates"
)

type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type ShareNotifier struct {
	Pub     Publisher
	AppName string
	AppURL  string
	now     func() time.Time
}

func NewShareNotifier(pub Publisher, appName, appURL string) *ShareNotifier {
	return &ShareNotifier{Pub: pub, AppName: appName, AppURL: appURL, now: time.Now}
}

func (n *ShareNotifier) OpeningShared(ctx context.Context, notice application.ShareNotice) error {
	job := mailer.EmailJob{
		To:       notice.To,
		Template: mailtpl.OpeningShared,
		Data: mailtpl.NewOpeningSharedData(notice.To, notice.From, notice.OpeningName,
			mailtpl.WithApp(n.AppName, n.AppURL),
			mailtpl.WithTime(n.now()),
		),
	}
	return n.Pub.PublishJSON(ctx, job)
}

var _ application.ShareNotifier = (*ShareNotifier)(nil)
