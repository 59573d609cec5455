package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"menucli/internal/api"
	"menucli/internal/model"
	"menucli/internal/state"
)

// Navigator abstracts "where the user lands next". The TUI switches views,
// the plain CLI records the target (or ignores it).
type Navigator interface {
	// Path is the current location, checked against the public allow-list
	// before a forced redirect to login.
	Path() string
	GoToLogin()
	GoToStore(storeID string)
	GoToLanding()
}

// publicPaths are exempt from forced redirect-to-login when verification
// fails: the storefront root and the login screen itself.
var publicPaths = []string{"/", "/auth/login"}

// LoginError distinguishes rejected credentials from every other login
// failure so the form can mark fields without revealing which one was wrong.
type LoginError struct {
	Message            string
	InvalidCredentials bool
}

func (e *LoginError) Error() string {
	return e.Message
}

type VerifyOptions struct {
	RedirectToApp   bool
	RedirectToLogin bool
}

// Manager owns the session lifecycle: login, logout, verification on start,
// and the redirect policy between the public storefront and the managed area.
type Manager struct {
	api     *api.Client
	state   *state.Container
	creds   CredentialFile
	persist state.Persistor
	nav     Navigator
	log     *zap.Logger

	now func() time.Time

	tearingDown atomic.Bool
}

type ManagerOption func(*Manager)

func WithNavigator(nav Navigator) ManagerOption {
	return func(m *Manager) { m.nav = nav }
}

func WithLogger(log *zap.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

func withClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(client *api.Client, container *state.Container, creds CredentialFile, persist state.Persistor, opts ...ManagerOption) *Manager {
	m := &Manager{
		api:     client,
		state:   container,
		creds:   creds,
		persist: persist,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	// The client reads the bearer token per request; a 401 anywhere tears the
	// session down so call sites never handle it themselves.
	client.SetTokenSource(m.Token)
	client.SetUnauthorizedHook(m.invalidate)
	return m
}

// Token returns the stored session token, or "" when logged out.
func (m *Manager) Token() string {
	tok, err := m.creds.Read()
	if err != nil {
		m.log.Warn("read credentials", zap.Error(err))
		return ""
	}
	return tok
}

// Login authenticates against the backend. On success the returned user is
// encoded into the credentials file, stored in shared state, and persisted.
// On failure the prior session (if any) is left untouched.
func (m *Manager) Login(ctx context.Context, email, password string, redirectToApp bool) (*model.User, error) {
	user, err := m.api.Login(ctx, email, password)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return nil, &LoginError{
				Message:            apiErr.Message,
				InvalidCredentials: apiErr.Message == api.InvalidCredentialsMessage,
			}
		}
		return nil, &LoginError{Message: "login failed: " + err.Error()}
	}

	now := m.now()
	token, err := EncodeUser(user, now)
	if err != nil {
		return nil, &LoginError{Message: "login failed: " + err.Error()}
	}
	if err := m.creds.Write(token, now); err != nil {
		return nil, &LoginError{Message: "login failed: " + err.Error()}
	}
	m.state.SetUser(user)
	if err := m.persist.Save(user); err != nil {
		m.log.Warn("persist session", zap.Error(err))
	}
	m.log.Info("logged in", zap.String("email", user.Email))

	if redirectToApp {
		m.redirectToApp(user)
	}
	return user, nil
}

// Logout notifies the server best-effort when a user is present, then always
// completes locally: credentials removed, state cleared, persisted slice
// purged. Safe to call repeatedly.
func (m *Manager) Logout(ctx context.Context) error {
	if !m.tearingDown.CompareAndSwap(false, true) {
		return nil
	}
	defer m.tearingDown.Store(false)

	if m.state.User() != nil {
		if err := m.api.Logout(ctx); err != nil {
			m.log.Warn("server logout failed", zap.Error(err))
		}
	}
	return m.teardown()
}

// invalidate is the 401 interceptor path: local teardown only, no server
// call (the server already told us the session is dead).
func (m *Manager) invalidate() {
	if !m.tearingDown.CompareAndSwap(false, true) {
		return
	}
	defer m.tearingDown.Store(false)

	m.log.Info("session rejected by server; logging out")
	_ = m.teardown()
	m.redirectToLogin()
}

func (m *Manager) teardown() error {
	err := m.creds.Remove()
	m.state.Reset()
	if perr := m.persist.Purge(); perr != nil {
		m.log.Warn("purge persisted state", zap.Error(perr))
	}
	return err
}

// Verify replays the session from the credentials file. No file means no
// session and no network call. A structurally valid token is re-validated
// against GET /auth/me; any mismatch or failure fails closed.
func (m *Manager) Verify(ctx context.Context, opts VerifyOptions) (bool, error) {
	token, err := m.creds.Read()
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	snapshot, err := DecodeUser(token)
	if err != nil {
		m.log.Debug("stored token rejected", zap.Error(err))
		if opts.RedirectToLogin {
			m.redirectToLogin()
		}
		return false, nil
	}

	canonical, err := m.api.Me(ctx)
	if err != nil || !usersEqual(canonical, snapshot) {
		if err != nil {
			m.log.Debug("identity check failed", zap.Error(err))
		} else {
			m.log.Info("stored session is stale; clearing")
		}
		_ = m.creds.Remove()
		m.state.SetUser(nil)
		if opts.RedirectToLogin {
			m.redirectToLogin()
		}
		return false, nil
	}

	m.state.SetUser(canonical)
	if opts.RedirectToApp {
		m.redirectToApp(canonical)
	}
	return true, nil
}

func (m *Manager) redirectToLogin() {
	if m.nav == nil {
		return
	}
	current := m.nav.Path()
	for _, p := range publicPaths {
		if current == p {
			return
		}
	}
	m.nav.GoToLogin()
}

func (m *Manager) redirectToApp(u *model.User) {
	if m.nav == nil {
		return
	}
	if len(u.Stores) > 0 {
		m.nav.GoToStore(u.Stores[0].ID)
		return
	}
	m.nav.GoToLanding()
}

// usersEqual is the deep-equality gate between the locally decoded snapshot
// and the server's canonical record. Comparing the JSON forms sidesteps
// time.Time representation quirks.
func usersEqual(a, b *model.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
