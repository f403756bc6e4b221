package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/loja_grid/internal/logging"
)

const (
	CookieName = "session"
	contextKey = "session"
)

// Notice categories shown by the layout.
const (
	FlashOK   = "ok"
	FlashInfo = "info"
	FlashWarn = "warn"
	FlashErr  = "err"
)

type Flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

type Data struct {
	UserID  uint    `json:"uid,omitempty"`
	Flashes []Flash `json:"fl,omitempty"`
}

func (d *Data) empty() bool { return d.UserID == 0 && len(d.Flashes) == 0 }

// Claims is what gets signed into the cookie. Data is nil when a server-side store keeps it.
type Claims struct {
	Data *Data `json:"d,omitempty"`
	jwt.RegisteredClaims
}

type Store interface {
	Load(ctx context.Context, claims *Claims) (*Data, error)
	Save(ctx context.Context, id string, d *Data, ttl time.Duration) (*Claims, error)
	Delete(ctx context.Context, id string) error
}

// Session is the request-scoped view of the signed session.
type Session struct {
	id    string
	oldID string
	data  *Data
	dirty bool
}

func (s *Session) UserID() uint { return s.data.UserID }

// Login stores uid under a fresh session id.
func (s *Session) Login(uid uint) {
	s.rotate()
	s.data.UserID = uid
	s.dirty = true
}

// Clear drops everything, pending notices included.
func (s *Session) Clear() {
	s.rotate()
	s.data = &Data{}
	s.dirty = true
}

func (s *Session) AddFlash(kind, message string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Kind: kind, Message: message})
	s.dirty = true
}

// PopFlashes returns pending notices and removes them from the session.
func (s *Session) PopFlashes() []Flash {
	out := s.data.Flashes
	if len(out) > 0 {
		s.data.Flashes = nil
		s.dirty = true
	}
	return out
}

func (s *Session) rotate() {
	if s.oldID == "" {
		s.oldID = s.id
	}
	s.id = uuid.NewString()
}

// FromContext returns the request session, or a detached one that is never persisted.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok {
		return s
	}
	s := &Session{id: uuid.NewString(), data: &Data{}}
	c.Set(contextKey, s)
	return s
}

type Manager struct {
	Secret []byte
	Store  Store
	TTL    time.Duration
	Secure bool
	// Skipper bypasses session loading; skipped handlers see a detached session.
	Skipper middleware.Skipper
}

func NewManager(secret []byte, store Store, ttl time.Duration, secure bool) *Manager {
	if store == nil {
		store = CookieStore{}
	}
	return &Manager{Secret: secret, Store: store, TTL: ttl, Secure: secure}
}

func (m *Manager) parse(raw string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid session token")
	}
	return &claims, nil
}

func (m *Manager) load(c echo.Context) (*Session, error) {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return &Session{id: uuid.NewString(), data: &Data{}}, nil
	}

	claims, err := m.parse(ck.Value)
	if err != nil {
		logging.FromContext(c.Request().Context()).Debug("session_discarded", "reason", "invalid token", "error", err)
		return &Session{id: uuid.NewString(), data: &Data{}, dirty: true}, nil
	}

	data, err := m.Store.Load(c.Request().Context(), claims)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		data = &Data{}
	}
	return &Session{id: claims.ID, data: data}, nil
}

func (m *Manager) write(c echo.Context, s *Session) error {
	ctx := c.Request().Context()
	if s.oldID != "" && s.oldID != s.id {
		if err := m.Store.Delete(ctx, s.oldID); err != nil {
			return err
		}
	}

	if s.data.empty() {
		if err := m.Store.Delete(ctx, s.id); err != nil {
			return err
		}
		c.SetCookie(m.cookie("", -1))
		return nil
	}

	claims, err := m.Store.Save(ctx, s.id, s.data, m.TTL)
	if err != nil {
		return err
	}
	now := time.Now()
	claims.ID = s.id
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.TTL))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	if err != nil {
		return err
	}
	c.SetCookie(m.cookie(signed, int(m.TTL.Seconds())))
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Middleware loads the session before the handler and writes it back right before the response headers go out.
func (m *Manager) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.Skipper != nil && m.Skipper(c) {
			return next(c)
		}
		s, err := m.load(c)
		if err != nil {
			return err
		}
		c.Set(contextKey, s)

		c.Response().Before(func() {
			if !s.dirty {
				return
			}
			if err := m.write(c, s); err != nil {
				logging.FromContext(c.Request().Context()).Error("session_save_failed", "error", err)
			}
		})
		return next(c)
	}
}
