package httpserver

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja_grid/internal/auth"
	"github.com/Skotchmaster/loja_grid/internal/logging"
	"github.com/Skotchmaster/loja_grid/internal/service"
	"github.com/Skotchmaster/loja_grid/internal/session"
	"github.com/Skotchmaster/loja_grid/internal/view"
)

const multipartMemory = 8 << 20

type Handler struct {
	Catalog *service.CatalogService
	Auth    *auth.Service
	Guard   *auth.Guard
}

// render fills in the shared page context and writes the named template.
func (h *Handler) render(c echo.Context, code int, name string, data any) error {
	user, err := h.Guard.CurrentUser(c)
	if err != nil {
		return err
	}
	g := view.NewGlobals(user, view.LoadBanners(c.Request().Context(), h.Catalog), session.FromContext(c).PopFlashes())
	return c.Render(code, name, view.Page{Globals: g, Data: data})
}

// redirectBack returns to the referring page on this site, query included, or to fallback.
func redirectBack(c echo.Context, fallback string) error {
	return c.Redirect(http.StatusSeeOther, backTarget(c.Request(), fallback))
}

func backTarget(req *http.Request, fallback string) string {
	ref := req.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" || (u.Host != "" && u.Host != req.Host) {
		return fallback
	}
	target := u.Path
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	if auth.SafeNext(target) != target {
		return fallback
	}
	return target
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrNotFound
	}
	return uint(id), nil
}

// parseForm reads the request body up front so an oversized upload surfaces as 413
// instead of empty form values.
func parseForm(c echo.Context) error {
	err := c.Request().ParseMultipartForm(multipartMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return echo.ErrStatusRequestEntityTooLarge
	}
	return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
}

// formFile returns nil when the field carries no file.
func formFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return fh, err
}

// mutationFailed turns a validation error into an err notice and a redirect back; anything else propagates.
func mutationFailed(c echo.Context, err error, fallback string) error {
	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	logging.FromContext(c.Request().Context()).Warn("validation_failed", "status", http.StatusSeeOther, "reason", ve.Msg)
	session.FromContext(c).AddFlash(session.FlashErr, ve.Msg)
	return redirectBack(c, fallback)
}

func done(c echo.Context, kind, msg, fallback string) error {
	session.FromContext(c).AddFlash(kind, msg)
	return redirectBack(c, fallback)
}
