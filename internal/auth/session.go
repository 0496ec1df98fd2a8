// Package auth holds the client-side session: the persisted backend token and
// the display-only user decoded from it.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenKey is the fixed key the session token is persisted under.
const TokenKey = "auth_token"

var (
	// ErrInvalidToken is returned when a token cannot be decoded.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims holds the token claims the backend issues. The client decodes them
// for display only and never verifies the signature; the backend remains the
// authority on token validity.
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

// User is the display-only user derived from decoded claims.
type User struct {
	ID       uuid.UUID
	Email    string
	FullName string
	Role     string
}

// Store is the injected persistence for the session token. pkg/storage.Local
// satisfies it; tests use an in-memory map.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Session owns the current user and token. It is bound to the single UI
// goroutine and is not safe for concurrent use.
type Session struct {
	store  Store
	logger *zap.Logger

	token string
	user  *User
	subs  []func(*User)
}

// NewSession restores the session from the store. An absent token means
// anonymous; an undecodable persisted token is cleared and logged, and the
// session starts anonymous.
func NewSession(store Store, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{store: store, logger: logger}

	token, ok, err := store.Get(TokenKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}

	user, err := decodeUser(token)
	if err != nil {
		logger.Warn("clearing undecodable persisted token", zap.Error(err))
		if err := store.Delete(TokenKey); err != nil {
			return nil, err
		}
		return s, nil
	}

	s.token = token
	s.user = user
	return s, nil
}

// Login decodes and persists a freshly issued token and notifies subscribers.
func (s *Session) Login(token string) error {
	user, err := decodeUser(token)
	if err != nil {
		return err
	}
	if err := s.store.Set(TokenKey, token); err != nil {
		return err
	}
	s.token = token
	s.user = user
	s.notify()
	s.logger.Info("logged in", zap.String("email", user.Email))
	return nil
}

// Logout clears the persisted token and notifies subscribers with a nil user.
func (s *Session) Logout() error {
	if err := s.store.Delete(TokenKey); err != nil {
		return err
	}
	s.token = ""
	s.user = nil
	s.notify()
	s.logger.Info("logged out")
	return nil
}

// Current returns the logged-in user, if any.
func (s *Session) Current() (*User, bool) {
	if s.user == nil {
		return nil, false
	}
	return s.user, true
}

// Token returns the raw bearer token, empty when anonymous.
func (s *Session) Token() string {
	return s.token
}

// OnChange registers fn to be called after every login and logout.
func (s *Session) OnChange(fn func(*User)) {
	s.subs = append(s.subs, fn)
}

func (s *Session) notify() {
	for _, fn := range s.subs {
		fn(s.user)
	}
}

func decodeUser(token string) (*User, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return &User{
		ID:       claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     claims.Role,
	}, nil
}
