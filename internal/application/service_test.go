package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/chessup-server/internal/domain/docpath"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
	repo "github.com/oksasatya/chessup-server/internal/domain/repository"
	"github.com/oksasatya/chessup-server/internal/domain/repository/mocks"
	"github.com/oksasatya/chessup-server/internal/infrastructure/memory"
	"github.com/oksasatya/chessup-server/pkg/helpers"
)

const strongPassword = "vT9#qLw!2xZp$Rk7&mNc"

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]map[string]any
	invalidated []string
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]map[string]any{}} }

func (c *fakeCache) Get(_ context.Context, id string) (map[string]any, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[id]
	return p, ok, nil
}

func (c *fakeCache) Set(_ context.Context, id string, p map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = p
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fakeNotifier struct {
	notices []ShareNotice
	err     error
}

func (n *fakeNotifier) OpeningShared(_ context.Context, notice ShareNotice) error {
	n.notices = append(n.notices, notice)
	return n.err
}

type fakeStore struct {
	objectPath  string
	contentType string
	body        string
}

func (s *fakeStore) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objectPath, s.contentType, s.body = objectPath, contentType, string(b)
	return "https://storage.googleapis.com/bucket/" + objectPath, nil
}

func newTestService(t *testing.T, opts ...Option) (*Service, *memory.UserRepository, *helpers.TokenManager) {
	t.Helper()
	store := memory.NewUserRepository()
	tokens := helpers.NewTokenManager("test-secret")
	svc := NewService(store, helpers.NewPasswordHasher(bcrypt.MinCost), helpers.PasswordStrength{}, tokens, helpers.NewDiscardLogger(), opts...)
	return svc, store, tokens
}

func signup(t *testing.T, svc *Service, tokens *helpers.TokenManager, email string) string {
	t.Helper()
	token, err := svc.Signup(context.Background(), email, strongPassword)
	require.NoError(t, err)
	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	return claims.UserID
}

func TestSignup_TokenIdentifiesInsertedUser(t *testing.T) {
	svc, store, tokens := newTestService(t)
	ctx := context.Background()

	id := signup(t, svc, tokens, "magnus@example.com")

	u, err := store.FindByEmail(ctx, "magnus@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), id)
	assert.NotEqual(t, strongPassword, u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, strongPassword))
}

func TestSignup_Validation(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "", strongPassword)
	assert.EqualError(t, err, MsgMissingCredentials)
	_, err = svc.Signup(ctx, "a@example.com", "")
	assert.EqualError(t, err, MsgMissingCredentials)

	_, err = svc.Signup(ctx, "a@example.com", "password")
	var weak *WeakPasswordError
	require.ErrorAs(t, err, &weak)
	assert.True(t, strings.HasPrefix(err.Error(), "Weak password - "))
	assert.True(t, IsClientError(err))

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, tokens := newTestService(t)
	signup(t, svc, tokens, "dup@example.com")

	_, err := svc.Signup(context.Background(), "dup@example.com", strongPassword)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.EqualError(t, err, MsgDuplicateEmail)
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()
	id := signup(t, svc, tokens, "hikaru@example.com")

	token, err := svc.Login(ctx, "hikaru@example.com", strongPassword)
	require.NoError(t, err)
	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)

	_, err = svc.Login(ctx, "hikaru@example.com", "nope")
	assert.EqualError(t, err, MsgWrongPassword)
	_, err = svc.Login(ctx, "nobody@example.com", strongPassword)
	assert.EqualError(t, err, MsgWrongEmail)
	_, err = svc.Login(ctx, "hikaru@example.com", "")
	assert.EqualError(t, err, MsgMissingCredentials)
}

func TestOpenings_AddEditDelete(t *testing.T) {
	svc, store, tokens := newTestService(t)
	ctx := context.Background()
	id := signup(t, svc, tokens, "a@example.com")

	for _, name := range []string{"Italian Game", "Sicilian Defense", "French Defense"} {
		require.NoError(t, svc.AddOpening(ctx, id, &entity.Opening{Name: name, Variations: []*entity.Variation{}}))
	}
	require.NoError(t, svc.RenameOpening(ctx, id, 1, "Sicilian Najdorf"))
	require.NoError(t, svc.SetOpeningArchived(ctx, id, 2, true))
	require.NoError(t, svc.AddVariation(ctx, id, 0, &entity.Variation{Name: "Giuoco Piano"}))
	require.NoError(t, svc.AddVariation(ctx, id, 0, &entity.Variation{Name: "Evans Gambit"}))
	require.NoError(t, svc.SetVariationSubname(ctx, id, 0, 1, "Accepted"))
	require.NoError(t, svc.SetVariationArchived(ctx, id, 0, 0, true))
	require.NoError(t, svc.RenameVariation(ctx, id, 0, 0, "Giuoco Pianissimo"))
	require.NoError(t, svc.EditComment(ctx, id, 0, "e4", "king pawn"))
	require.NoError(t, svc.SetDrawBoard(ctx, id, 0, "Bc4", true))

	u, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, u.UserOpenings, 3)
	italian := u.UserOpenings[0]
	assert.Equal(t, "king pawn", italian.Comments["e4"])
	assert.Equal(t, true, italian.PdfBoards["Bc4"])
	require.Len(t, italian.Variations, 2)
	assert.Equal(t, "Giuoco Pianissimo", italian.Variations[0].Name)
	assert.True(t, italian.Variations[0].Archived)
	assert.Equal(t, "Accepted", italian.Variations[1].Subname)
	assert.Equal(t, "Sicilian Najdorf", u.UserOpenings[1].Name)
	assert.True(t, u.UserOpenings[2].Archived)

	require.NoError(t, svc.DeleteVariation(ctx, id, 0, 0))
	require.NoError(t, svc.DeleteOpening(ctx, id, 1))

	u, err = store.FindByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, u.UserOpenings, 2)
	assert.Equal(t, "Italian Game", u.UserOpenings[0].Name)
	assert.Equal(t, "French Defense", u.UserOpenings[1].Name)
	require.Len(t, u.UserOpenings[0].Variations, 1)
	assert.Equal(t, "Evans Gambit", u.UserOpenings[0].Variations[0].Name)
}

func TestDeleteOpening_TwiceAgainstCurrentLength(t *testing.T) {
	svc, store, tokens := newTestService(t)
	ctx := context.Background()
	id := signup(t, svc, tokens, "a@example.com")
	for _, name := range []string{"A", "B"} {
		require.NoError(t, svc.AddOpening(ctx, id, &entity.Opening{Name: name}))
	}

	require.NoError(t, svc.DeleteOpening(ctx, id, 1))
	require.NoError(t, svc.DeleteOpening(ctx, id, 1))

	u, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, u.UserOpenings, 1)
	assert.Equal(t, "A", u.UserOpenings[0].Name)
}

func TestRenameVariationGroup(t *testing.T) {
	svc, store, tokens := newTestService(t)
	ctx := context.Background()
	id := signup(t, svc, tokens, "a@example.com")
	require.NoError(t, svc.AddOpening(ctx, id, &entity.Opening{Name: "Ruy Lopez", Variations: []*entity.Variation{
		{Name: "Berlin"}, {Name: "Marshall"}, {Name: "Berlin", Subname: "Rio"},
	}}))

	require.NoError(t, svc.RenameVariationGroup(ctx, id, 0, "Berlin", "Berlin Wall"))
	require.NoError(t, svc.RenameVariationGroup(ctx, id, 7, "Berlin", "x"))

	u, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	var names []string
	for _, v := range u.UserOpenings[0].Variations {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"Berlin Wall", "Marshall", "Berlin Wall"}, names)
	assert.Equal(t, "Rio", u.UserOpenings[0].Variations[2].Subname)
}

func TestSendOpening(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("queue down")}
	svc, store, tokens := newTestService(t, WithShareNotifier(notifier))
	ctx := context.Background()
	sender := signup(t, svc, tokens, "coach@example.com")
	student := signup(t, svc, tokens, "student@example.com")

	n, err := svc.SendOpening(ctx, sender, []string{"ghost@example.com", "student@example.com"}, &entity.Opening{
		Name:   "Caro-Kann",
		Extras: map[string]any{"moves": []any{"e4", "c6"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	u, err := store.FindByID(ctx, student)
	require.NoError(t, err)
	require.Len(t, u.Inbox, 1)
	assert.Equal(t, "Caro-Kann", u.Inbox[0].Name)
	assert.Equal(t, "coach@example.com", u.Inbox[0].CreatorEmail)
	assert.Len(t, u.Inbox[0].Extras["moves"], 2)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, ShareNotice{To: "student@example.com", From: "coach@example.com", OpeningName: "Caro-Kann"}, notifier.notices[0])

	require.NoError(t, svc.DeleteInboxMail(ctx, student, 0))
	u, err = store.FindByID(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, u.Inbox)
}

func TestSendOpening_UnknownSender(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.SendOpening(context.Background(), "65f1c0ffee0000000000abcd", []string{"x@example.com"}, &entity.Opening{Name: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfile_CacheReadThroughAndInvalidation(t *testing.T) {
	cache := newFakeCache()
	svc, _, tokens := newTestService(t, WithProfileCache(cache))
	ctx := context.Background()
	id := signup(t, svc, tokens, "a@example.com")

	p, err := svc.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", p["email"])
	assert.NotContains(t, p, "password")
	_, cached, _ := cache.Get(ctx, id)
	assert.True(t, cached)

	require.NoError(t, svc.SetLanguage(ctx, id, "de"))
	_, cached, _ = cache.Get(ctx, id)
	assert.False(t, cached)

	p, err = svc.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "de", p["language"])
}

func TestProfile_StaleEntryDroppedAfterRepairDelay(t *testing.T) {
	cache := newFakeCache()
	svc, _, tokens := newTestService(t, WithProfileCache(cache), WithCacheRepairDelay(20*time.Millisecond))
	ctx := context.Background()
	id := signup(t, svc, tokens, "a@example.com")

	stale, err := svc.GetProfile(ctx, id)
	require.NoError(t, err)

	require.NoError(t, svc.SetLanguage(ctx, id, "de"))
	// a reader that loaded the document before the write caches it afterwards
	require.NoError(t, cache.Set(ctx, id, stale))

	assert.Eventually(t, func() bool {
		_, cached, _ := cache.Get(ctx, id)
		return !cached
	}, time.Second, 5*time.Millisecond)

	p, err := svc.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "de", p["language"])
}

func TestUpdateProfile(t *testing.T) {
	svc, store, tokens := newTestService(t)
	ctx := context.Background()
	id := signup(t, svc, tokens, "a@example.com")

	require.NoError(t, svc.UpdateProfile(ctx, id, map[string]any{
		"theme":    "dark",
		"settings": map[string]any{"sound": true},
		"userOpenings": []any{
			map[string]any{"name": "London System", "moves": []any{"d4"}},
		},
	}))
	require.NoError(t, svc.SetSetting(ctx, id, "autoflip", false))

	u, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "dark", u.Extras["theme"])
	assert.Equal(t, true, u.Settings["sound"])
	assert.Equal(t, false, u.Settings["autoflip"])
	require.Len(t, u.UserOpenings, 1)
	assert.Equal(t, "London System", u.UserOpenings[0].Name)

	for _, body := range []map[string]any{
		{},
		{"password": "x"},
		{"email": "b@example.com"},
		{"_id": "x"},
		{"a.b": 1},
		{"$set": 1},
		{"userOpenings": "not a list"},
		{"settings": map[string]any{"a.b": 1}},
	} {
		err := svc.UpdateProfile(ctx, id, body)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve, "body %v", body)
	}
}

func TestUploadOpeningPDF(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()
	id := signup(t, svc, tokens, "a@example.com")
	_, err := svc.UploadOpeningPDF(ctx, id, 0, "x.pdf", "application/pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrFeatureDisabled)

	objects := &fakeStore{}
	svc, store, tokens := newTestService(t, WithObjectStore(objects))
	id = signup(t, svc, tokens, "a@example.com")

	_, err = svc.UploadOpeningPDF(ctx, id, 0, "x.pdf", "application/pdf", strings.NewReader("%PDF"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	require.NoError(t, svc.AddOpening(ctx, id, &entity.Opening{Name: "Dutch"}))
	url, err := svc.UploadOpeningPDF(ctx, id, 0, "Dutch.PDF", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(objects.objectPath, "exports/"+id+"/"))
	assert.True(t, strings.HasSuffix(objects.objectPath, ".pdf"))
	assert.Equal(t, "%PDF-1.4", objects.body)

	u, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, url, u.UserOpenings[0].PdfURL)
}

func TestSearchUsers_ScanFallback(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()
	for _, e := range []string{"anna@club.org", "bob@example.com", "ANNIE@club.org"} {
		signup(t, svc, tokens, e)
	}

	got, err := svc.SearchUsers(ctx, "ann", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"anna@club.org", "ANNIE@club.org"}, got)

	got, err = svc.SearchUsers(ctx, "club", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.SearchUsers(ctx, "  ", 10)
	assert.True(t, IsClientError(err))
}

func TestMutate_StoreFailures(t *testing.T) {
	ctx := context.Background()
	r := new(mocks.MockUserRepository)
	svc := NewService(r, helpers.NewPasswordHasher(bcrypt.MinCost), helpers.PasswordStrength{}, helpers.NewTokenManager("s"), helpers.NewDiscardLogger())

	r.On("SetField", ctx, "u1", docpath.Language().String(), "en").Return(errors.New("connection reset")).Once()
	err := svc.SetLanguage(ctx, "u1", "en")
	require.Error(t, err)
	assert.False(t, IsClientError(err))
	assert.Contains(t, err.Error(), "set_language")

	r.On("UnsetField", ctx, "u2", docpath.Opening(0).String()).Return(repo.ErrNotFound).Once()
	err = svc.DeleteOpening(ctx, "u2", 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
	r.AssertNotCalled(t, "PullNulls", mock.Anything, "u2", mock.Anything)

	r.On("FindByEmail", ctx, "a@example.com").Return(nil, errors.New("timeout")).Once()
	_, err = svc.Login(ctx, "a@example.com", strongPassword)
	require.Error(t, err)
	assert.False(t, IsClientError(err))

	r.AssertExpectations(t)
}
