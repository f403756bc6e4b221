package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newServer(m *Manager) *echo.Echo {
	e := echo.New()
	e.Use(m.Middleware)
	e.GET("/login", func(c echo.Context) error {
		s := FromContext(c)
		s.Login(7)
		s.AddFlash(FlashOK, "bem-vindo")
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/whoami", func(c echo.Context) error {
		s := FromContext(c)
		return c.JSON(http.StatusOK, echo.Map{"uid": s.UserID(), "flashes": s.PopFlashes()})
	})
	e.GET("/logout", func(c echo.Context) error {
		FromContext(c).Clear()
		return c.NoContent(http.StatusNoContent)
	})
	return e
}

func do(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestLoginPersistsAcrossRequests(t *testing.T) {
	e := newServer(NewManager([]byte("secret"), nil, time.Hour, false))

	ck := sessionCookie(t, do(e, "/login"))
	require.True(t, ck.HttpOnly)

	rec := do(e, "/whoami", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"uid":7,"flashes":[{"k":"ok","m":"bem-vindo"}]}`, rec.Body.String())

	ck = sessionCookie(t, rec)
	rec = do(e, "/whoami", ck)
	require.JSONEq(t, `{"uid":7,"flashes":null}`, rec.Body.String())
}

func TestAnonymousRequestSetsNoCookie(t *testing.T) {
	e := newServer(NewManager([]byte("secret"), nil, time.Hour, false))
	rec := do(e, "/whoami")
	require.JSONEq(t, `{"uid":0,"flashes":null}`, rec.Body.String())
	require.Empty(t, rec.Result().Cookies())
}

func TestTamperedOrForeignCookieIsIgnored(t *testing.T) {
	e := newServer(NewManager([]byte("secret"), nil, time.Hour, false))
	ck := sessionCookie(t, do(e, "/login"))

	other := newServer(NewManager([]byte("another-secret"), nil, time.Hour, false))
	rec := do(other, "/whoami", ck)
	require.JSONEq(t, `{"uid":0,"flashes":null}`, rec.Body.String())

	rec = do(e, "/whoami", &http.Cookie{Name: CookieName, Value: ck.Value + "x"})
	require.JSONEq(t, `{"uid":0,"flashes":null}`, rec.Body.String())
}

func TestClearExpiresCookie(t *testing.T) {
	e := newServer(NewManager([]byte("secret"), nil, time.Hour, false))
	ck := sessionCookie(t, do(e, "/login"))

	cleared := sessionCookie(t, do(e, "/logout", ck))
	require.Less(t, cleared.MaxAge, 0)

	rec := do(e, "/logout")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

type memStore struct {
	data    map[string]*Data
	deleted []string
}

func (m *memStore) Load(_ context.Context, claims *Claims) (*Data, error) {
	if d, ok := m.data[claims.ID]; ok {
		return d, nil
	}
	return &Data{}, nil
}

func (m *memStore) Save(_ context.Context, id string, d *Data, _ time.Duration) (*Claims, error) {
	cp := *d
	m.data[id] = &cp
	return &Claims{}, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.data, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestServerSideStoreRotatesID(t *testing.T) {
	store := &memStore{data: map[string]*Data{}}
	e := newServer(NewManager([]byte("secret"), store, time.Hour, false))

	ck := sessionCookie(t, do(e, "/login"))
	require.Len(t, store.data, 1)

	rec := do(e, "/whoami", ck)
	require.JSONEq(t, `{"uid":7,"flashes":[{"k":"ok","m":"bem-vindo"}]}`, rec.Body.String())

	do(e, "/logout", sessionCookie(t, rec))
	require.Empty(t, store.data)
	require.NotEmpty(t, store.deleted)
}

func TestDetachedSession(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	s := FromContext(c)
	require.Zero(t, s.UserID())
	require.Same(t, s, FromContext(c))
}
