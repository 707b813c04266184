package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobcontrolroom/jobctl/internal/client/api"
	"github.com/jobcontrolroom/jobctl/internal/client/models"
	"github.com/jobcontrolroom/jobctl/internal/client/state"
	"github.com/jobcontrolroom/jobctl/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ---- fakes ----

// fakeBackend implements api.Backend for manager unit tests.
type fakeBackend struct {
	LoginRet *api.LoginResponse
	LoginErr error

	RegisterRet *models.UserProfile
	RegisterErr error

	ProfileRet *models.UserProfile
	ProfileErr error

	ChangePasswordErr error
	ResetRequestErr   error

	LastLoginUsername string
	LastLoginPassword string
	LastProfileToken  string
	ProfileCalls      int
}

func (f *fakeBackend) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	f.LastLoginUsername = username
	f.LastLoginPassword = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeBackend) Register(ctx context.Context, name, email, password string) (*models.UserProfile, error) {
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeBackend) Profile(ctx context.Context, token string) (*models.UserProfile, error) {
	f.LastProfileToken = token
	f.ProfileCalls++
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeBackend) UpdateProfileImage(ctx context.Context, token, filename string, content io.Reader) (*models.UserProfile, error) {
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeBackend) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	return f.ChangePasswordErr
}

func (f *fakeBackend) RequestPasswordReset(ctx context.Context, email string) error {
	return f.ResetRequestErr
}

func (f *fakeBackend) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error {
	return nil
}

func (f *fakeBackend) ListJobs(ctx context.Context, token string, page, pageSize int) (*models.JobListResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBackend) FilterJobs(ctx context.Context, token string, query url.Values) (*models.JobListResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBackend) GetJob(ctx context.Context, token string, id int64) (*models.JobApplication, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBackend) AddJob(ctx context.Context, token string, payload map[string]any) (*models.JobApplication, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBackend) UpdateJob(ctx context.Context, token string, id int64, payload map[string]any) (*models.JobApplication, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBackend) DeleteJob(ctx context.Context, token string, id int64) error {
	return errors.New("not implemented")
}

var _ api.Backend = (*fakeBackend)(nil)

// memStore is an in-memory state.Repository.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.data = map[string][]byte{}
	return nil
}

var _ state.Repository = (*memStore)(nil)

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("disk on fire")
}
func (failingStore) Delete(ctx context.Context, key string) error {
	return errors.New("disk on fire")
}
func (failingStore) Clear(ctx context.Context) error {
	return errors.New("disk on fire")
}

// ---- tests ----

func TestLogin_Success(t *testing.T) {
	backend := &fakeBackend{
		LoginRet: &api.LoginResponse{
			Token: "tok-1",
			User:  &models.UserProfile{ID: 1, Name: "Ann", Email: "ann@example.com"},
		},
	}
	store := newMemStore()
	m := NewManager(backend, store, testLogger())

	res := m.Login(context.Background(), "ann@example.com", "pw")
	require.True(t, res.Success)
	require.Empty(t, res.Error)
	require.Equal(t, "ann@example.com", res.User.Email)

	require.Equal(t, StateAuthenticated, m.State())
	require.True(t, m.IsAuthenticated())
	require.Equal(t, "tok-1", m.Token())
	require.Equal(t, "ann@example.com", backend.LastLoginUsername)

	require.Equal(t, []byte("tok-1"), store.data[state.KeyToken])
	require.Contains(t, string(store.data[state.KeyUser]), "ann@example.com")
}

func TestLogin_MissingUserFallsBackToEmail(t *testing.T) {
	backend := &fakeBackend{LoginRet: &api.LoginResponse{Token: "tok-1"}}
	m := NewManager(backend, newMemStore(), testLogger())

	res := m.Login(context.Background(), "ann@example.com", "pw")
	require.True(t, res.Success)
	require.NotNil(t, res.User)
	require.Equal(t, "ann@example.com", res.User.Email)
	require.Equal(t, "ann@example.com", m.User().Email)
}

func TestLogin_Failure(t *testing.T) {
	backend := &fakeBackend{
		LoginErr: api.NewError(api.KindValidation, "Unable to log in with provided credentials."),
	}
	store := newMemStore()
	m := NewManager(backend, store, testLogger())

	res := m.Login(context.Background(), "ann@example.com", "wrong")
	require.False(t, res.Success)
	require.Equal(t, "Unable to log in with provided credentials.", res.Error)
	require.Equal(t, StateUnknown, m.State())
	require.Empty(t, m.Token())
	require.Empty(t, store.data)
}

func TestRegister_DoesNotAuthenticate(t *testing.T) {
	backend := &fakeBackend{
		RegisterRet: &models.UserProfile{ID: 2, Name: "Bob", Email: "bob@example.com"},
	}
	store := newMemStore()
	m := NewManager(backend, store, testLogger())

	res := m.Register(context.Background(), "Bob", "bob@example.com", "pw")
	require.True(t, res.Success)
	require.True(t, res.RedirectToLogin)
	require.Equal(t, "Registration successful, please sign in.", res.Message)

	require.Equal(t, StateAnonymous, m.State())
	require.False(t, m.IsAuthenticated())
	require.Empty(t, m.Token())
	// A provisional snapshot is cached, but no token.
	require.NotContains(t, store.data, state.KeyToken)
	require.Contains(t, string(store.data[state.KeyUser]), "bob@example.com")
}

func TestRegister_Failure(t *testing.T) {
	backend := &fakeBackend{RegisterErr: api.NewError(api.KindValidation, "Already taken.")}
	m := NewManager(backend, newMemStore(), testLogger())

	res := m.Register(context.Background(), "Bob", "dup@example.com", "pw")
	require.False(t, res.Success)
	require.Equal(t, "Already taken.", res.Error)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	backend := &fakeBackend{LoginRet: &api.LoginResponse{Token: "tok-1"}}
	m := NewManager(backend, failingStore{}, testLogger())
	m.Login(context.Background(), "ann@example.com", "pw")

	res := m.Logout(context.Background())
	require.True(t, res.Success)
	require.Equal(t, StateAnonymous, m.State())
	require.Empty(t, m.Token())
	require.Nil(t, m.User())
}

func TestCheckSession_NoToken(t *testing.T) {
	m := NewManager(&fakeBackend{}, newMemStore(), testLogger())

	got := m.CheckSession(context.Background())
	require.Equal(t, StateAnonymous, got)
	require.Equal(t, StateAnonymous, m.State())
}

func TestCheckSession_LiveProfile(t *testing.T) {
	backend := &fakeBackend{
		ProfileRet: &models.UserProfile{ID: 1, Email: "ann@example.com"},
	}
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), state.KeyToken, []byte("tok-1")))
	m := NewManager(backend, store, testLogger())

	got := m.CheckSession(context.Background())
	require.Equal(t, StateAuthenticated, got)
	require.Equal(t, "ann@example.com", m.User().Email)
	require.Equal(t, "tok-1", backend.LastProfileToken)
}

func TestCheckSession_CachedFallbackOnTransientFailure(t *testing.T) {
	backend := &fakeBackend{
		ProfileErr: api.NewError(api.KindNetwork, "A network error occurred."),
	}
	store := newMemStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, state.KeyToken, []byte("tok-1")))
	require.NoError(t, store.Set(ctx, state.KeyUser, []byte(`{"id":1,"email":"ann@example.com"}`)))
	m := NewManager(backend, store, testLogger())

	got := m.CheckSession(ctx)
	require.Equal(t, StateAuthenticated, got)
	require.Equal(t, "ann@example.com", m.User().Email)
	// The stale-capable snapshot is good enough; the token survives.
	require.Equal(t, "tok-1", m.Token())
}

func TestCheckSession_UnauthorizedClearsEverything(t *testing.T) {
	backend := &fakeBackend{
		ProfileErr: api.NewError(api.KindUnauthorized, "Your session may have expired, please sign in again."),
	}
	store := newMemStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, state.KeyToken, []byte("stale")))
	require.NoError(t, store.Set(ctx, state.KeyUser, []byte(`{"id":1,"email":"ann@example.com"}`)))
	m := NewManager(backend, store, testLogger())

	got := m.CheckSession(ctx)
	require.Equal(t, StateAnonymous, got)
	require.Empty(t, m.Token())
	require.Nil(t, m.User())
	require.NotContains(t, store.data, state.KeyToken)
	require.NotContains(t, store.data, state.KeyUser)
}

func TestCheckSession_CorruptSnapshotClears(t *testing.T) {
	backend := &fakeBackend{
		ProfileErr: api.NewError(api.KindNetwork, "A network error occurred."),
	}
	store := newMemStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, state.KeyToken, []byte("tok-1")))
	require.NoError(t, store.Set(ctx, state.KeyUser, []byte(`{not json`)))
	m := NewManager(backend, store, testLogger())

	got := m.CheckSession(ctx)
	require.Equal(t, StateAnonymous, got)
	require.NotContains(t, store.data, state.KeyToken)
}

func TestProfile_RequiresToken(t *testing.T) {
	backend := &fakeBackend{}
	m := NewManager(backend, newMemStore(), testLogger())

	_, err := m.Profile(context.Background())
	require.Error(t, err)
	require.True(t, api.IsKind(err, api.KindPrecondition))
	require.Zero(t, backend.ProfileCalls)
}

func TestProfile_RefreshesSnapshot(t *testing.T) {
	backend := &fakeBackend{
		LoginRet:   &api.LoginResponse{Token: "tok-1"},
		ProfileRet: &models.UserProfile{ID: 1, Name: "Ann Updated", Email: "ann@example.com"},
	}
	store := newMemStore()
	m := NewManager(backend, store, testLogger())
	m.Login(context.Background(), "ann@example.com", "pw")

	user, err := m.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ann Updated", user.Name)
	require.Contains(t, string(store.data[state.KeyUser]), "Ann Updated")
}

func TestChangePassword_UnauthorizedTearsDownSession(t *testing.T) {
	backend := &fakeBackend{
		LoginRet:          &api.LoginResponse{Token: "tok-1"},
		ChangePasswordErr: api.NewError(api.KindUnauthorized, "expired"),
	}
	store := newMemStore()
	m := NewManager(backend, store, testLogger())
	m.Login(context.Background(), "ann@example.com", "pw")

	err := m.ChangePassword(context.Background(), "old", "new")
	require.Error(t, err)
	require.Equal(t, StateAnonymous, m.State())
	require.NotContains(t, store.data, state.KeyToken)
}

func TestRequestPasswordReset_NoSessionRequired(t *testing.T) {
	backend := &fakeBackend{}
	m := NewManager(backend, newMemStore(), testLogger())

	require.NoError(t, m.RequestPasswordReset(context.Background(), "ann@example.com"))
}
