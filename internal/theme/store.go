package theme

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

// SessionStore keeps the preference in the server-side session.
type SessionStore struct {
	sessions *scs.SessionManager
}

// NewSessionStore creates a SessionStore. A nil manager makes every call
// fail with ErrStorageUnavailable.
func NewSessionStore(sm *scs.SessionManager) *SessionStore {
	return &SessionStore{sessions: sm}
}

func (s *SessionStore) Load(ctx context.Context) (string, error) {
	if s.sessions == nil {
		return "", ErrStorageUnavailable
	}
	return s.sessions.GetString(ctx, Key), nil
}

func (s *SessionStore) Save(ctx context.Context, value string) error {
	if s.sessions == nil {
		return ErrStorageUnavailable
	}
	s.sessions.Put(ctx, Key, value)
	return nil
}

// cookieMaxAge is one year.
const cookieMaxAge = 365 * 24 * 60 * 60

// CookieStore keeps the preference in a "theme" cookie. The cookie is not
// HttpOnly so the anti-flash script in the page head can read it before
// first paint.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

// NewCookieStore creates a CookieStore bound to one request.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{w: w, r: r, secure: secure}
}

func (s *CookieStore) Load(_ context.Context) (string, error) {
	c, err := s.r.Cookie(Key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

func (s *CookieStore) Save(_ context.Context, value string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     Key,
		Value:    value,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
		HttpOnly: false,
	})
	return nil
}

// MultiStore reads from the first store holding a value and writes to all
// of them. A write succeeds if any store accepted it.
type MultiStore []Store

func (m MultiStore) Load(ctx context.Context) (string, error) {
	var errs []error
	for _, s := range m {
		v, err := safeLoad(ctx, s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if v != "" {
			return v, nil
		}
	}
	if len(errs) == len(m) && len(m) > 0 {
		return "", errors.Join(errs...)
	}
	return "", nil
}

func (m MultiStore) Save(ctx context.Context, value string) error {
	var errs []error
	for _, s := range m {
		if err := safeSave(ctx, s, value); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == len(m) && len(m) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
