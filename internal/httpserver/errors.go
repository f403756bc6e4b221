package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja_grid/internal/logging"
	"github.com/Skotchmaster/loja_grid/internal/repo"
	"github.com/Skotchmaster/loja_grid/internal/session"
	"github.com/Skotchmaster/loja_grid/internal/view"
)

var errorPages = map[int]view.ErrorPage{
	http.StatusNotFound: {
		Code:    http.StatusNotFound,
		Title:   "Página não encontrada",
		Message: "A URL que você tentou acessar não existe.",
	},
	http.StatusRequestEntityTooLarge: {
		Code:    http.StatusRequestEntityTooLarge,
		Title:   "Arquivo muito grande",
		Message: "O arquivo enviado excede o limite permitido (8 MB).",
	},
	http.StatusInternalServerError: {
		Code:    http.StatusInternalServerError,
		Title:   "Erro interno",
		Message: "Ocorreu um erro inesperado no servidor. Tente novamente mais tarde.",
	},
}

func errorPage(code int) view.ErrorPage {
	if p, ok := errorPages[code]; ok {
		return p
	}
	if code >= 400 && code < 500 {
		return view.ErrorPage{Code: code, Title: http.StatusText(code)}
	}
	return errorPages[http.StatusInternalServerError]
}

func statusOf(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// HTTPErrorHandler renders error.html. The page chrome is built best-effort so a database outage
// still produces the styled 500 page.
func (h *Handler) HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	page := errorPage(statusOf(err))
	ctx := c.Request().Context()
	if page.Code >= 500 {
		logging.FromContext(ctx).Error("request_failed", "status", page.Code, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(page.Code)
		return
	}

	user, uerr := h.Guard.CurrentUser(c)
	if uerr != nil {
		user = nil
	}
	g := view.NewGlobals(user, view.LoadBanners(ctx, h.Catalog), session.FromContext(c).PopFlashes())
	if rerr := c.Render(page.Code, "error.html", view.Page{Globals: g, Data: page}); rerr != nil {
		logging.FromContext(ctx).Error("error_page_failed", "status", page.Code, "error", rerr)
		_ = c.String(page.Code, page.Title)
	}
}
