// Package session owns the client's authentication state: the token, the
// cached user snapshot, and the transitions between anonymous and
// authenticated. Views receive a *Manager by injection; there is no ambient
// global session.
package session

import (
	"context"
	"encoding/json"
	"io"

	"github.com/jobcontrolroom/jobctl/internal/client/api"
	"github.com/jobcontrolroom/jobctl/internal/client/models"
	"github.com/jobcontrolroom/jobctl/internal/client/state"
	"github.com/jobcontrolroom/jobctl/internal/logging"
)

// State is the session lifecycle stage.
//
//	Unknown → CheckingSession → Authenticated | Anonymous
//	Authenticated → Anonymous on logout or a 401 from any authenticated call.
//
// A failed session check is not retried automatically; callers invoke
// CheckSession again explicitly.
type State string

const (
	StateUnknown       State = "unknown"
	StateChecking      State = "checking"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// AuthResult is the tagged outcome of login/register/logout. Expected
// failures never surface as Go errors from those operations; they come back
// as {Success: false, Error: <display message>}.
type AuthResult struct {
	Success         bool
	User            *models.UserProfile
	Message         string
	RedirectToLogin bool
	Error           string
}

// Manager implements the session state machine. It is not safe for
// concurrent use; all calls happen on the single UI loop.
type Manager struct {
	backend api.Backend
	store   state.Repository
	log     logging.Logger

	state State
	token string
	user  *models.UserProfile
}

func NewManager(backend api.Backend, store state.Repository, log logging.Logger) *Manager {
	return &Manager{backend: backend, store: store, log: log, state: StateUnknown}
}

func (m *Manager) State() State { return m.state }

// Token returns the current auth token, empty when anonymous. Manager
// satisfies the jobs client's TokenSource with this.
func (m *Manager) Token() string { return m.token }

func (m *Manager) User() *models.UserProfile { return m.user }

func (m *Manager) IsAuthenticated() bool { return m.state == StateAuthenticated }

// Login exchanges credentials for a token and, on success, persists the
// token plus a user snapshot. When the backend omits the user record, a
// minimal snapshot holding the email is cached instead so the UI always has
// an identity to show.
func (m *Manager) Login(ctx context.Context, email, password string) AuthResult {
	resp, err := m.backend.Login(ctx, email, password)
	if err != nil {
		m.log.Warn(ctx, "login failed", "error", err.Error())
		return AuthResult{Success: false, Error: api.Message(err)}
	}

	user := resp.User
	if user == nil {
		user = &models.UserProfile{Email: email}
	} else if user.Email == "" {
		user.Email = email
	}

	m.token = resp.Token
	m.user = user
	m.state = StateAuthenticated
	m.persistToken(ctx, resp.Token)
	m.persistUser(ctx, user)

	m.log.Info(ctx, "login successful", "email", user.Email)
	return AuthResult{Success: true, User: user}
}

// Register creates an account and caches a provisional user snapshot.
// Registration does not authenticate; the result instructs the caller to
// redirect to the login view.
func (m *Manager) Register(ctx context.Context, name, email, password string) AuthResult {
	user, err := m.backend.Register(ctx, name, email, password)
	if err != nil {
		m.log.Warn(ctx, "registration failed", "error", err.Error())
		return AuthResult{Success: false, Error: api.Message(err)}
	}

	if user.Email == "" {
		user.Email = email
	}
	if user.Name == "" {
		user.Name = name
	}
	m.persistUser(ctx, user)

	m.state = StateAnonymous
	m.log.Info(ctx, "registration successful", "email", user.Email)
	return AuthResult{
		Success:         true,
		User:            user,
		Message:         "Registration successful, please sign in.",
		RedirectToLogin: true,
	}
}

// Logout tears the session down. It always reports success: a half-failed
// storage clear must never block navigation away from an authenticated view.
func (m *Manager) Logout(ctx context.Context) AuthResult {
	m.clearSession(ctx)
	m.log.Info(ctx, "logged out")
	return AuthResult{Success: true}
}

// CheckSession resolves the startup state. With a stored token it tries the
// live profile first; if that fails it falls back to the cached snapshot,
// because a transient fetch failure must not flicker the UI into a
// logged-out state when a cached identity exists. A token without any
// resolvable identity is corrupt state and is cleared.
func (m *Manager) CheckSession(ctx context.Context) State {
	m.state = StateChecking

	token, err := m.store.Get(ctx, state.KeyToken)
	if err != nil {
		m.log.Warn(ctx, "could not read stored token", "error", err.Error())
	}
	if len(token) == 0 {
		m.state = StateAnonymous
		return m.state
	}
	m.token = string(token)

	user, err := m.Profile(ctx)
	if err == nil {
		m.user = user
		m.state = StateAuthenticated
		return m.state
	}
	m.log.Warn(ctx, "profile fetch failed during session check", "error", err.Error())

	// A 401 already cleared the session including the snapshot, so the
	// fallback below only succeeds for transient failures.
	if cached := m.cachedUser(ctx); cached != nil && m.token != "" {
		m.user = cached
		m.state = StateAuthenticated
		return m.state
	}

	m.clearSession(ctx)
	return m.state
}

// Profile fetches the live profile and refreshes the cached snapshot. A 401
// proactively clears the whole session; a stale token is never retried.
func (m *Manager) Profile(ctx context.Context) (*models.UserProfile, error) {
	if m.token == "" {
		return nil, api.NewError(api.KindPrecondition, "You are not signed in.")
	}

	user, err := m.backend.Profile(ctx, m.token)
	if err != nil {
		if api.IsKind(err, api.KindUnauthorized) {
			m.clearSession(ctx)
		}
		return nil, err
	}

	m.user = user
	m.persistUser(ctx, user)
	return user, nil
}

// ChangePassword rotates the password of the signed-in user.
func (m *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if m.token == "" {
		return api.NewError(api.KindPrecondition, "You are not signed in.")
	}
	err := m.backend.ChangePassword(ctx, m.token, currentPassword, newPassword)
	if err != nil && api.IsKind(err, api.KindUnauthorized) {
		m.clearSession(ctx)
	}
	return err
}

// UpdateProfileImage uploads a new profile image and refreshes the snapshot.
func (m *Manager) UpdateProfileImage(ctx context.Context, filename string, content io.Reader) (*models.UserProfile, error) {
	if m.token == "" {
		return nil, api.NewError(api.KindPrecondition, "You are not signed in.")
	}

	user, err := m.backend.UpdateProfileImage(ctx, m.token, filename, content)
	if err != nil {
		if api.IsKind(err, api.KindUnauthorized) {
			m.clearSession(ctx)
		}
		return nil, err
	}

	m.user = user
	m.persistUser(ctx, user)
	return user, nil
}

// RequestPasswordReset asks the backend to mail a reset link. No session is
// required.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	return m.backend.RequestPasswordReset(ctx, email)
}

// ConfirmPasswordReset completes a password reset.
func (m *Manager) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error {
	return m.backend.ConfirmPasswordReset(ctx, uid, token, newPassword)
}

// cachedUser loads the persisted snapshot, nil when absent or unreadable.
func (m *Manager) cachedUser(ctx context.Context) *models.UserProfile {
	data, err := m.store.Get(ctx, state.KeyUser)
	if err != nil {
		m.log.Warn(ctx, "could not read cached user", "error", err.Error())
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var user models.UserProfile
	if err := json.Unmarshal(data, &user); err != nil {
		m.log.Warn(ctx, "cached user snapshot is corrupt", "error", err.Error())
		return nil
	}
	return &user
}

// persistToken writes the token; failures degrade to an in-memory session.
func (m *Manager) persistToken(ctx context.Context, token string) {
	if err := m.store.Set(ctx, state.KeyToken, []byte(token)); err != nil {
		m.log.Warn(ctx, "could not persist token", "error", err.Error())
	}
}

// persistUser writes the snapshot; failures are logged, never propagated.
func (m *Manager) persistUser(ctx context.Context, user *models.UserProfile) {
	data, err := json.Marshal(user)
	if err != nil {
		m.log.Warn(ctx, "could not encode user snapshot", "error", err.Error())
		return
	}
	if err := m.store.Set(ctx, state.KeyUser, data); err != nil {
		m.log.Warn(ctx, "could not persist user snapshot", "error", err.Error())
	}
}

// clearSession drops the in-memory session and best-effort removes the
// persisted entries.
func (m *Manager) clearSession(ctx context.Context) {
	m.token = ""
	m.user = nil
	m.state = StateAnonymous
	if err := m.store.Delete(ctx, state.KeyToken); err != nil {
		m.log.Warn(ctx, "could not remove stored token", "error", err.Error())
	}
	if err := m.store.Delete(ctx, state.KeyUser); err != nil {
		m.log.Warn(ctx, "could not remove cached user", "error", err.Error())
	}
}
