package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/oksasatya/chessup-server/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	got []sent
	err error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	f.got = append(f.got, sent{to, subject, text, html})
	return f.err
}

func TestDeliver_OpeningShared(t *testing.T) {
	job := EmailJob{
		To:       "student@example.com",
		Template: mailtpl.OpeningShared,
		Data: mailtpl.NewOpeningSharedData("student@example.com", "coach@example.com", "Caro-Kann",
			mailtpl.WithApp("ChessUp", "https://chessup.example"),
			mailtpl.WithTime(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))),
	}
	body, err := json.Marshal(job)
	require.NoError(t, err)

	s := &fakeSender{}
	require.NoError(t, Deliver(context.Background(), s, body))
	require.Len(t, s.got, 1)
	m := s.got[0]
	assert.Equal(t, "student@example.com", m.to)
	assert.Equal(t, `coach@example.com shared "Caro-Kann" with you`, m.subject)
	assert.Contains(t, m.text, "https://chessup.example")
	assert.Contains(t, m.text, "01 March 2026, 12:00")
	assert.Contains(t, m.html, "<strong>Caro-Kann</strong>")
}

func TestDeliver_RawMessage(t *testing.T) {
	s := &fakeSender{}
	body := []byte(`{"to":"a@example.com","subject":"hi","text":"hello"}`)
	require.NoError(t, Deliver(context.Background(), s, body))
	assert.Equal(t, sent{"a@example.com", "hi", "hello", ""}, s.got[0])
}

func TestDeliver_BadJobsAreDropped(t *testing.T) {
	s := &fakeSender{}
	for _, body := range []string{
		`not json`,
		`{"subject":"x","text":"y"}`,
		`{"to":"a@example.com"}`,
		`{"to":"a@example.com","template":"no_such_template"}`,
	} {
		err := Deliver(context.Background(), s, []byte(body))
		assert.ErrorIs(t, err, ErrBadJob, body)
	}
	assert.Empty(t, s.got)
}

func TestDeliver_SendFailureIsRetryable(t *testing.T) {
	s := &fakeSender{err: errors.New("mailgun 502")}
	err := Deliver(context.Background(), s, []byte(`{"to":"a@example.com","subject":"hi","text":"x"}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadJob)
}
