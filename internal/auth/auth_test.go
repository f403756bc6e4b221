package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/loja_grid/internal/hash"
	"github.com/Skotchmaster/loja_grid/internal/models"
	"github.com/Skotchmaster/loja_grid/internal/repo"
	"github.com/Skotchmaster/loja_grid/internal/session"
)

type fakeUsers struct {
	users []models.User
	err   error
	calls int
}

func (f *fakeUsers) UserByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Username == username {
			return &f.users[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUsers) UserByID(_ context.Context, id uint) (*models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func newUsers(t *testing.T) *fakeUsers {
	pw, err := hash.HashPassword("senha")
	require.NoError(t, err)
	return &fakeUsers{users: []models.User{
		{ID: 1, Username: "admin", PasswordHash: pw, Role: models.RoleAdmin},
		{ID: 2, Username: "maria", PasswordHash: pw, Role: "user"},
	}}
}

func TestAuthenticate(t *testing.T) {
	svc := &Service{Users: newUsers(t)}
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, " admin ", "senha")
	require.NoError(t, err)
	require.EqualValues(t, 1, u.ID)

	_, errWrong := svc.Authenticate(ctx, "admin", "errada")
	_, errUnknown := svc.Authenticate(ctx, "ninguem", "senha")
	require.ErrorIs(t, errWrong, ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.Equal(t, errWrong, errUnknown)
}

func TestAuthenticateDBError(t *testing.T) {
	boom := errors.New("db down")
	svc := &Service{Users: &fakeUsers{err: boom}}
	_, err := svc.Authenticate(context.Background(), "admin", "senha")
	require.ErrorIs(t, err, boom)
}

func TestSafeNext(t *testing.T) {
	require.Equal(t, "/", SafeNext(""))
	require.Equal(t, "/contatos", SafeNext("/contatos"))
	require.Equal(t, "/", SafeNext("https://evil.example"))
	require.Equal(t, "/", SafeNext("//evil.example"))
	require.Equal(t, "/", SafeNext(`/\evil.example`))
}

func guardContext(path string, uid uint) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != 0 {
		session.FromContext(c).Login(uid)
	}
	return c, rec
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestRequireAdmin(t *testing.T) {
	g := &Guard{Users: newUsers(t)}

	c, rec := guardContext("/produtos", 1)
	require.NoError(t, g.RequireAdmin(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, uid := range []uint{0, 2, 99} {
		c, rec = guardContext("/produtos", uid)
		require.NoError(t, g.RequireAdmin(okHandler)(c))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
		flashes := session.FromContext(c).PopFlashes()
		require.Len(t, flashes, 1)
		require.Equal(t, session.FlashErr, flashes[0].Kind)
	}
}

func TestRequireAdminPropagatesDBError(t *testing.T) {
	boom := errors.New("db down")
	g := &Guard{Users: &fakeUsers{err: boom}}
	c, _ := guardContext("/produtos", 1)
	require.ErrorIs(t, g.RequireAdmin(okHandler)(c), boom)
}

func TestRequireLogin(t *testing.T) {
	g := &Guard{Users: newUsers(t)}

	c, rec := guardContext("/admin", 0)
	require.NoError(t, g.RequireLogin(okHandler)(c))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login?next=%2Fadmin", rec.Header().Get(echo.HeaderLocation))
	flashes := session.FromContext(c).PopFlashes()
	require.Equal(t, session.FlashWarn, flashes[0].Kind)

	c, rec = guardContext("/admin", 2)
	require.NoError(t, g.RequireLogin(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCurrentUserCachedPerRequest(t *testing.T) {
	users := newUsers(t)
	g := &Guard{Users: users}
	c, _ := guardContext("/", 2)

	u, err := g.CurrentUser(c)
	require.NoError(t, err)
	require.Equal(t, "maria", u.Username)
	_, err = g.CurrentUser(c)
	require.NoError(t, err)
	require.Equal(t, 1, users.calls)

	anon, _ := guardContext("/", 0)
	u, err = g.CurrentUser(anon)
	require.NoError(t, err)
	require.Nil(t, u)
}
