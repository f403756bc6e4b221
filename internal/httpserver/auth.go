package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja_grid/internal/auth"
	"github.com/Skotchmaster/loja_grid/internal/logging"
	"github.com/Skotchmaster/loja_grid/internal/session"
)

type LoginPage struct {
	Next     string
	Username string
}

func (h *Handler) LoginForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "login.html", LoginPage{Next: c.QueryParam("next")})
}

func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "Login")

	if err := parseForm(c); err != nil {
		return err
	}
	username := c.FormValue("username")
	u, err := h.Auth.Authenticate(ctx, username, c.FormValue("password"))
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			return err
		}
		l.Warn("login_failed", "status", http.StatusOK, "reason", "invalid credentials")
		session.FromContext(c).AddFlash(session.FlashErr, "Usuário ou senha inválidos.")
		return h.render(c, http.StatusOK, "login.html", LoginPage{Next: c.QueryParam("next"), Username: username})
	}

	sess := session.FromContext(c)
	sess.Login(u.ID)
	sess.AddFlash(session.FlashOK, "Login efetuado com sucesso.")
	l.Info("login_succeeded", "user_id", u.ID)
	return c.Redirect(http.StatusSeeOther, auth.SafeNext(c.QueryParam("next")))
}

func (h *Handler) Logout(c echo.Context) error {
	sess := session.FromContext(c)
	sess.Clear()
	sess.AddFlash(session.FlashInfo, "Sessão encerrada.")
	return c.Redirect(http.StatusFound, "/login")
}
