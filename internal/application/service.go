package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/chessup-server/internal/domain/repository"
)

var (
	metricSignups   = expvar.NewInt("chessup_signups")
	metricLogins    = expvar.NewInt("chessup_logins")
	metricMutations = expvar.NewMap("chessup_mutations")
	metricShares    = expvar.NewInt("chessup_shares_delivered")
)

// ErrFeatureDisabled is returned by optional features whose backend is not configured.
var ErrFeatureDisabled = errors.New("feature not configured")

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// PasswordScorer rates a password 0..4 against context hints such as the email.
type PasswordScorer interface {
	Score(password string, hints []string) (int, []string)
}

type TokenIssuer interface {
	IssueToken(userID string) (string, error)
}

// ProfileCache holds rendered profiles; every mutation of a user invalidates its entry.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (map[string]any, bool, error)
	Set(ctx context.Context, userID string, profile map[string]any) error
	Invalidate(ctx context.Context, userID string) error
}

// ShareNotice describes one delivered shared opening.
type ShareNotice struct {
	To          string
	From        string
	OpeningName string
}

type ShareNotifier interface {
	OpeningShared(ctx context.Context, n ShareNotice) error
}

type UserIndex interface {
	IndexUser(ctx context.Context, userID, email string) error
	SearchEmails(ctx context.Context, query string, size int) ([]string, error)
}

type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type Service struct {
	Repo     repo.UserRepository
	Hasher   PasswordHasher
	Scorer   PasswordScorer
	Tokens   TokenIssuer
	Logger   *logrus.Logger
	Cache    ProfileCache
	Notifier ShareNotifier
	Index    UserIndex
	Storage  ObjectStore

	// CacheRepairDelay schedules a second invalidation after each mutation.
	CacheRepairDelay time.Duration
}

type Option func(*Service)

func WithProfileCache(c ProfileCache) Option      { return func(s *Service) { s.Cache = c } }
func WithCacheRepairDelay(d time.Duration) Option { return func(s *Service) { s.CacheRepairDelay = d } }
func WithShareNotifier(n ShareNotifier) Option    { return func(s *Service) { s.Notifier = n } }
func WithUserIndex(i UserIndex) Option            { return func(s *Service) { s.Index = i } }
func WithObjectStore(o ObjectStore) Option        { return func(s *Service) { s.Storage = o } }

func NewService(repo repo.UserRepository, hasher PasswordHasher, scorer PasswordScorer, tokens TokenIssuer, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		Repo:   repo,
		Hasher: hasher,
		Scorer: scorer,
		Tokens: tokens,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = logrus.StandardLogger()
	}
	return s
}

// mutate runs one or more store calls for userID. The profile cache entry is
// dropped even when a later call fails, since earlier calls may have landed.
//
// A GetProfile that read the store before the write can still cache the old
// profile after that first drop. The entry is dropped again after
// CacheRepairDelay, which bounds how long such a stale profile is served.
func (s *Service) mutate(ctx context.Context, userID, op string, calls ...func() error) error {
	defer s.invalidate(ctx, userID)
	for _, call := range calls {
		if err := call(); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	metricMutations.Add(op, 1)
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.Cache == nil {
		return
	}
	s.dropProfile(ctx, userID)
	if s.CacheRepairDelay > 0 {
		time.AfterFunc(s.CacheRepairDelay, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.dropProfile(ctx, userID)
		})
	}
}

func (s *Service) dropProfile(ctx context.Context, userID string) {
	if err := s.Cache.Invalidate(ctx, userID); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("profile cache invalidate failed")
	}
}
