// Package view renders the storefront pages and builds the context every page shares.
package view

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/loja_grid/internal/logging"
	"github.com/Skotchmaster/loja_grid/internal/models"
	"github.com/Skotchmaster/loja_grid/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"index.html", "about.html", "contatos.html", "login.html", "admin.html", "busca.html", "error.html"}

type BannerItem struct {
	ID  uint
	URL string
}

// BannerSet is the banner list for the page chrome. Degraded is set when the lookup failed
// and the set was left empty.
type BannerSet struct {
	Items    []BannerItem
	Active   *BannerItem
	Degraded bool
}

type BannerLister interface {
	ListBanners(ctx context.Context) ([]models.Banner, error)
}

// LoadBanners never fails; a lookup error yields an empty degraded set.
func LoadBanners(ctx context.Context, lister BannerLister) BannerSet {
	rows, err := lister.ListBanners(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("banners_degraded", "reason", "banner lookup failed", "error", err)
		return BannerSet{Degraded: true}
	}
	set := BannerSet{Items: make([]BannerItem, 0, len(rows))}
	for _, b := range rows {
		set.Items = append(set.Items, BannerItem{ID: b.ID, URL: BannerImageURL(b)})
	}
	if len(set.Items) > 0 {
		set.Active = &set.Items[0]
	}
	return set
}

// Globals is available to every template.
type Globals struct {
	User    *models.User
	Admin   bool
	Banners BannerSet
	Year    int
	Flashes []session.Flash
}

func NewGlobals(user *models.User, banners BannerSet, flashes []session.Flash) *Globals {
	return &Globals{
		User:    user,
		Admin:   user.IsAdmin(),
		Banners: banners,
		Year:    time.Now().UTC().Year(),
		Flashes: flashes,
	}
}

// BannerURL is the active banner's URL, empty when there are no banners.
func (g *Globals) BannerURL() string {
	if g.Banners.Active == nil {
		return ""
	}
	return g.Banners.Active.URL
}

type Page struct {
	*Globals
	Data any
}

type ErrorPage struct {
	Code    int
	Title   string
	Message string
}

// WhatsAppLink returns a wa.me link for a free-form phone number, or "#" when it has no digits.
func WhatsAppLink(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "#"
	}
	if !strings.HasPrefix(digits, "55") {
		digits = "55" + digits
	}
	return "https://wa.me/" + digits
}

func ProductImageURL(p models.Product) string {
	return fmt.Sprintf("/produtos/%d/imagem?v=%d", p.ID, p.CreatedAt.Unix())
}

func ContactPhotoURL(c models.Contact) string {
	return fmt.Sprintf("/contatos/%d/foto?v=%d", c.ID, c.CreatedAt.Unix())
}

func BannerImageURL(b models.Banner) string {
	return fmt.Sprintf("/banners/%d/imagem?v=%d", b.ID, b.CreatedAt.Unix())
}

// Money formats a price the Brazilian way, e.g. R$ 10,50.
func Money(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var funcs = template.FuncMap{
	"money":        Money,
	"deref":        deref,
	"whatsapp":     WhatsAppLink,
	"productImage": ProductImageURL,
	"contactPhoto": ContactPhotoURL,
	"bannerImage":  BannerImageURL,
	"priceInput":   func(d decimal.Decimal) string { return d.StringFixed(2) },
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
