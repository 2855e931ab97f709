// Package services contains the application services of the getfit client.
// This file defines the Session Store: the single owner of authentication
// state, mirrored one to one into secure credential storage.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/getfit/internal/common"
	"github.com/dmitrijs2005/getfit/internal/logging"
	"github.com/dmitrijs2005/getfit/internal/observer"
	"github.com/dmitrijs2005/getfit/internal/validation"
	"golang.org/x/sync/singleflight"
)

// AuthAPI is the subset of the auth service the Session Store needs.
// *client.AuthClient implements it.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	RegisterFull(ctx context.Context, req models.RegisterFullRequest) (*models.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.RefreshResult, error)
	Validate(ctx context.Context, accessToken string) error
	Logout(ctx context.Context, accessToken string) error
}

// Session is a point-in-time copy of the authentication state.
//
// IsAuthenticated implies that both tokens and User are set.
type Session struct {
	IsAuthenticated bool
	User            *models.User
	AccessToken     string
	RefreshToken    string
	IsLoading       bool
}

// State names the three states of the session lifecycle.
type State int

const (
	StateLoggedOut State = iota
	StateLoading
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "logged out"
	}
}

func (s Session) State() State {
	switch {
	case s.IsLoading:
		return StateLoading
	case s.IsAuthenticated:
		return StateAuthenticated
	default:
		return StateLoggedOut
	}
}

// SessionStore serialises every mutating operation: a call that starts while
// another one is in flight waits for it. Concurrent RefreshAccessToken calls
// share a single network round trip.
type SessionStore struct {
	auth  AuthAPI
	creds credentials.Repository
	log   logging.Logger

	op      sync.Mutex
	refresh singleflight.Group

	mu    sync.RWMutex
	state Session
	subs  observer.List[Session]
}

// NewSessionStore returns a store in the Loading state; call Initialize to
// restore a persisted session.
func NewSessionStore(auth AuthAPI, creds credentials.Repository, log logging.Logger) *SessionStore {
	if log == nil {
		log = logging.Nop()
	}
	return &SessionStore{
		auth:  auth,
		creds: creds,
		log:   log.With("component", "session"),
		state: Session{IsLoading: true},
	}
}

// Snapshot returns a copy of the current state; changing its User does not
// affect the store.
func (s *SessionStore) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s Session) clone() Session {
	if s.User != nil {
		u := s.User.Clone()
		s.User = &u
	}
	return s
}

// UserID returns the id of the signed-in user.
func (s *SessionStore) UserID() (int64, bool) {
	st := s.Snapshot()
	if !st.IsAuthenticated || st.User == nil {
		return 0, false
	}
	return st.User.ID, true
}

// Subscribe calls fn with the new state after every change.
func (s *SessionStore) Subscribe(fn func(Session)) (cancel func()) {
	return s.subs.Subscribe(fn)
}

func (s *SessionStore) update(fn func(*Session)) {
	s.mu.Lock()
	fn(&s.state)
	st := s.state.clone()
	s.mu.Unlock()

	s.subs.Notify(st)
}

func (s *SessionStore) set(st Session) {
	s.update(func(cur *Session) { *cur = st })
}

func (s *SessionStore) setLoading(v bool) {
	s.update(func(cur *Session) { cur.IsLoading = v })
}

// Login authenticates with email and password. The email is trimmed and
// lowercased before anything else happens.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	req := models.LoginRequest{Email: common.NormalizeEmail(email), Password: password}
	if err := validation.Login(req); err != nil {
		return err
	}
	return s.authenticate(ctx, "login", func(ctx context.Context) (*models.AuthResult, error) {
		return s.auth.Login(ctx, req)
	})
}

func (s *SessionStore) Register(ctx context.Context, username, email, password string, dateOfBirth *models.Date) error {
	req := models.RegisterRequest{
		Username:    username,
		Email:       common.NormalizeEmail(email),
		Password:    password,
		DateOfBirth: dateOfBirth,
	}
	if err := validation.Register(req); err != nil {
		return err
	}
	return s.authenticate(ctx, "register", func(ctx context.Context) (*models.AuthResult, error) {
		return s.auth.Register(ctx, req)
	})
}

// RegisterFull registers with the extended profile.
func (s *SessionStore) RegisterFull(ctx context.Context, req models.RegisterFullRequest) error {
	req.Email = common.NormalizeEmail(req.Email)
	if err := validation.RegisterFull(req); err != nil {
		return err
	}
	return s.authenticate(ctx, "register", func(ctx context.Context) (*models.AuthResult, error) {
		return s.auth.RegisterFull(ctx, req)
	})
}

// authenticate runs call and on success persists and installs the session.
// On failure the previous session is kept and only IsLoading is cleared.
func (s *SessionStore) authenticate(ctx context.Context, op string, call func(context.Context) (*models.AuthResult, error)) error {
	s.op.Lock()
	defer s.op.Unlock()

	s.setLoading(true)

	res, err := call(ctx)
	if err != nil {
		s.setLoading(false)
		s.log.Info(ctx, op+" failed", "error", err)
		return err
	}

	user := res.User
	if err := s.persist(ctx, res.AccessToken, res.RefreshToken, &user); err != nil {
		s.setLoading(false)
		return err
	}

	s.set(Session{
		IsAuthenticated: true,
		User:            &user,
		AccessToken:     res.AccessToken,
		RefreshToken:    res.RefreshToken,
	})
	s.log.Info(ctx, op+" succeeded", "user_id", user.ID)
	return nil
}

func (s *SessionStore) persist(ctx context.Context, access, refresh string, user *models.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	err = s.creds.SetMany(ctx, map[string][]byte{
		common.AccessTokenKey:  []byte(access),
		common.RefreshTokenKey: []byte(refresh),
		common.UserKey:         b,
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Logout ends the session. The server is told on a best-effort basis; local
// credentials are always removed and the state always ends up logged out.
func (s *SessionStore) Logout(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()

	s.logoutLocked(ctx)
}

func (s *SessionStore) logoutLocked(ctx context.Context) {
	if tok := s.Snapshot().AccessToken; tok != "" {
		if err := s.auth.Logout(ctx, tok); err != nil {
			s.log.Warn(ctx, "logout request failed", "error", err)
		}
	}

	if err := s.creds.DeleteMany(ctx, common.CredentialKeys...); err != nil {
		s.log.Warn(ctx, "failed to clear credentials", "error", err)
		// the batch rolled back; remove what can be removed one by one
		for _, key := range common.CredentialKeys {
			if err := s.creds.Delete(ctx, key); err != nil {
				s.log.Warn(ctx, "failed to delete credential", "key", key, "error", err)
			}
		}
	}

	s.set(Session{})
	s.log.Info(ctx, "logged out")
}

// Initialize restores the persisted session. Without stored credentials it
// ends logged out and makes no network call. Stored credentials are
// validated; a rejected access token is refreshed, and when that fails too
// the session is logged out and storage cleared.
func (s *SessionStore) Initialize(ctx context.Context) {
	s.op.Lock()
	defer s.op.Unlock()

	s.setLoading(true)

	access, refresh, user, err := s.load(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to read stored credentials", "error", err)
	}
	if err != nil || access == "" || refresh == "" || user == nil {
		s.set(Session{})
		return
	}

	s.update(func(cur *Session) {
		cur.AccessToken = access
		cur.RefreshToken = refresh
		cur.User = user
	})

	err = s.auth.Validate(ctx, access)
	if err == nil {
		s.set(Session{IsAuthenticated: true, User: user, AccessToken: access, RefreshToken: refresh})
		s.log.Info(ctx, "session restored", "user_id", user.ID)
		return
	}
	s.log.Info(ctx, "stored access token rejected", "error", err)

	if s.refreshLocked(ctx) {
		s.update(func(cur *Session) {
			cur.IsAuthenticated = true
			cur.IsLoading = false
		})
		s.log.Info(ctx, "session restored after refresh", "user_id", user.ID)
		return
	}

	s.logoutLocked(ctx)
}

func (s *SessionStore) load(ctx context.Context) (access, refresh string, user *models.User, err error) {
	a, err := s.creds.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", "", nil, err
	}
	r, err := s.creds.Get(ctx, common.RefreshTokenKey)
	if err != nil {
		return "", "", nil, err
	}
	u, err := s.creds.Get(ctx, common.UserKey)
	if err != nil {
		return "", "", nil, err
	}
	if len(u) == 0 {
		return string(a), string(r), nil, nil
	}

	var decoded models.User
	if err := json.Unmarshal(u, &decoded); err != nil {
		return "", "", nil, fmt.Errorf("decode %s: %w", common.UserKey, err)
	}
	return string(a), string(r), &decoded, nil
}

// RefreshAccessToken exchanges the refresh token for a new access token and
// reports whether it worked. Only the access token changes on success;
// nothing changes on failure.
//
// Concurrent callers share one exchange, which runs detached from any single
// caller's cancellation. A caller whose ctx ends first gets false and the
// exchange carries on for the others.
func (s *SessionStore) RefreshAccessToken(ctx context.Context) bool {
	shared := context.WithoutCancel(ctx)
	ch := s.refresh.DoChan("refresh", func() (any, error) {
		s.op.Lock()
		defer s.op.Unlock()
		return s.refreshLocked(shared), nil
	})

	select {
	case <-ctx.Done():
		return false
	case r := <-ch:
		return r.Val.(bool)
	}
}

func (s *SessionStore) refreshLocked(ctx context.Context) bool {
	tok := s.Snapshot().RefreshToken
	if tok == "" {
		return false
	}

	res, err := s.auth.Refresh(ctx, tok)
	if err != nil {
		s.log.Warn(ctx, "token refresh failed", "error", err)
		return false
	}
	if err := s.creds.Set(ctx, common.AccessTokenKey, []byte(res.AccessToken)); err != nil {
		s.log.Warn(ctx, "failed to save refreshed token", "error", err)
		return false
	}

	s.update(func(cur *Session) { cur.AccessToken = res.AccessToken })
	s.log.Debug(ctx, "access token refreshed")
	return true
}

// UpdateUser merges the non-nil fields of patch into the current user and
// persists the result. It does nothing when no user is loaded.
func (s *SessionStore) UpdateUser(ctx context.Context, patch models.UserPatch) error {
	s.op.Lock()
	defer s.op.Unlock()

	cur := s.Snapshot().User
	if cur == nil {
		return nil
	}

	merged := patch.Apply(*cur)
	b, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.creds.Set(ctx, common.UserKey, b); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	s.update(func(st *Session) { st.User = &merged })
	return nil
}
