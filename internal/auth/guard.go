package auth

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja_grid/internal/logging"
	"github.com/Skotchmaster/loja_grid/internal/models"
	"github.com/Skotchmaster/loja_grid/internal/repo"
	"github.com/Skotchmaster/loja_grid/internal/session"
)

type Level int

const (
	LevelLogin Level = iota + 1
	LevelAdmin
)

type Decision int

const (
	Allow Decision = iota
	DenyAnonymous
	DenyRole
)

const userKey = "current_user"

type Guard struct {
	Users UserRepo
}

// CurrentUser loads the session user once per request. A stale id yields nil, not an error.
func (g *Guard) CurrentUser(c echo.Context) (*models.User, error) {
	if u, ok := c.Get(userKey).(*models.User); ok {
		return u, nil
	}
	uid := session.FromContext(c).UserID()
	if uid == 0 {
		return nil, nil
	}
	u, err := g.Users.UserByID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	c.Set(userKey, u)
	return u, nil
}

func (g *Guard) Authorize(c echo.Context, level Level) (Decision, error) {
	if session.FromContext(c).UserID() == 0 {
		if level == LevelAdmin {
			return DenyRole, nil
		}
		return DenyAnonymous, nil
	}
	if level == LevelLogin {
		return Allow, nil
	}
	u, err := g.CurrentUser(c)
	if err != nil {
		return DenyRole, err
	}
	if !u.IsAdmin() {
		return DenyRole, nil
	}
	return Allow, nil
}

func (g *Guard) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.require(LevelLogin, next)
}

func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.require(LevelAdmin, next)
}

func (g *Guard) require(level Level, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		decision, err := g.Authorize(c, level)
		if err != nil {
			return err
		}
		l := logging.FromContext(c.Request().Context())
		switch decision {
		case DenyAnonymous:
			l.Warn("access_denied", "status", http.StatusSeeOther, "reason", "login required")
			session.FromContext(c).AddFlash(session.FlashWarn, "Faça login para continuar.")
			return c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request().URL.Path))
		case DenyRole:
			l.Warn("access_denied", "status", http.StatusSeeOther, "reason", "admin required")
			session.FromContext(c).AddFlash(session.FlashErr, "Acesso restrito a administradores.")
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return next(c)
	}
}
