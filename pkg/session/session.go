// Package session keeps the signed-in user and bearer token, persisted between runs.
package session

import (
	"context"
	"maps"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrCorrupted        = errors.New("session data is corrupted")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// User is the user object returned by the login endpoint. Its shape is owned by the API.
type User map[string]any

func (u User) String(key string) string {
	if s, ok := u[key].(string); ok {
		return s
	}
	return ""
}

func (u User) Name() string  { return u.String("name") }
func (u User) Email() string { return u.String("email") }
func (u User) Role() string  { return u.String("role") }

type Data struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (d Data) valid() bool {
	return d.Token != "" && d.User != nil
}

// Store persists session Data. Load returns ErrNotFound when nothing was saved and
// ErrCorrupted when what was saved cannot be read back.
type Store interface {
	Load(ctx context.Context) (Data, error)
	Save(ctx context.Context, data Data) error
	Clear(ctx context.Context) error
}

type Session struct {
	store Store
	log   *logrus.Logger

	mu   sync.RWMutex
	data Data
}

func New(store Store, log *logrus.Logger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{store: store, log: log}
}

// Init restores the persisted session. Corrupted or partial data is removed and the session
// starts signed out.
func (s *Session) Init(ctx context.Context) error {
	data, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		data = Data{}
	case errors.Is(err, ErrCorrupted):
		s.log.WithError(err).Warn("session: clearing unreadable session")
		if err := s.store.Clear(ctx); err != nil {
			return errors.Wrap(err, "clear corrupted session")
		}
		data = Data{}
	case err != nil:
		return errors.Wrap(err, "load session")
	case !data.valid():
		if err := s.store.Clear(ctx); err != nil {
			return errors.Wrap(err, "clear partial session")
		}
		data = Data{}
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *Session) Login(ctx context.Context, user User, token string) error {
	if token == "" {
		return errors.New("session: token is required")
	}
	if user == nil {
		user = User{}
	}
	data := Data{Token: token, User: maps.Clone(user)}
	if err := s.store.Save(ctx, data); err != nil {
		return errors.Wrap(err, "save session")
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.data = Data{}
	s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear session")
	}
	return nil
}

// UpdateUser merges patch into the current user and persists the result.
func (s *Session) UpdateUser(ctx context.Context, patch User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.data.valid() {
		return ErrNotAuthenticated
	}
	updated := maps.Clone(s.data.User)
	maps.Copy(updated, patch)
	data := Data{Token: s.data.Token, User: updated}
	if err := s.store.Save(ctx, data); err != nil {
		return errors.Wrap(err, "save session")
	}
	s.data = data
	return nil
}

// Token implements httpapi.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.valid()
}

func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.data.User)
}
