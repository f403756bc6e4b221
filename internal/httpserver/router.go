package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/loja_grid/internal/config"
	loggingmw "github.com/Skotchmaster/loja_grid/internal/middleware/logging"
	"github.com/Skotchmaster/loja_grid/internal/session"
	"github.com/Skotchmaster/loja_grid/internal/view"
)

// New builds the echo instance with the middleware chain, renderer and error pages.
func New(cfg *config.Config, log *slog.Logger, h *Handler, sessions *session.Manager) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug
	e.Renderer = renderer
	e.HTTPErrorHandler = h.HTTPErrorHandler

	if sessions.Skipper == nil {
		sessions.Skipper = skipSession
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		loggingmw.RequestLogger(log),
		sessions.Middleware,
		middleware.BodyLimit(cfg.MaxUpload),
		middleware.Secure(),
	)

	Register(e, h)
	return e, nil
}

// sessionless routes never touch the session store, so they keep working when it is down.
var sessionless = map[string]bool{
	"/_health":             true,
	"/produtos/:id/imagem": true,
	"/contatos/:id/foto":   true,
	"/banners/:id/imagem":  true,
}

func skipSession(c echo.Context) bool {
	return sessionless[c.Path()] || strings.HasPrefix(c.Path(), "/static")
}

func Register(e *echo.Echo, h *Handler) {
	e.GET("/_health", h.Health)
	e.StaticFS("/static", echo.MustSubFS(view.StaticFS, "static"))

	e.GET("/", h.Index)
	e.GET("/sobre", h.About)
	e.GET("/about", func(c echo.Context) error { return c.Redirect(http.StatusFound, "/sobre") })
	e.GET("/contact", func(c echo.Context) error { return c.Redirect(http.StatusFound, "/contatos") })
	e.GET("/contatos", h.Contacts)
	e.GET("/produtos/busca", h.Search)

	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login)
	e.GET("/logout", h.Logout)

	e.GET("/produtos/:id/imagem", h.ProductImage)
	e.GET("/contatos/:id/foto", h.ContactPhoto)
	e.GET("/banners/:id/imagem", h.BannerImage)

	admin := h.Guard.RequireAdmin

	e.POST("/produtos", h.CreateProduct, admin)
	e.POST("/produtos/:id", h.UpdateProduct, admin)
	e.POST("/produtos/:id/delete", h.DeleteProduct, admin)

	e.POST("/contatos", h.CreateContact, admin)
	e.POST("/contatos/:id", h.UpdateContact, admin)
	e.POST("/contatos/:id/delete", h.DeleteContact, admin)

	e.GET("/admin", h.Admin, h.Guard.RequireLogin, admin)
	e.POST("/admin/banner", h.CreateBanner, admin)
	e.POST("/admin/banner/:id/delete", h.DeleteBanner, admin)
}
