package view

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/loja_grid/internal/models"
	"github.com/Skotchmaster/loja_grid/internal/session"
)

type bannerList struct {
	items []models.Banner
	err   error
}

func (b bannerList) ListBanners(context.Context) ([]models.Banner, error) { return b.items, b.err }

func TestWhatsAppLink(t *testing.T) {
	cases := map[string]string{
		"(11) 98888-7777":   "https://wa.me/5511988887777",
		"+55 11 98888-7777": "https://wa.me/5511988887777",
		"5511988887777":     "https://wa.me/5511988887777",
		"ligue já":          "#",
		"":                  "#",
	}
	for in, want := range cases {
		require.Equal(t, want, WhatsAppLink(in), in)
	}
}

func TestImageURLsCarryVersion(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()
	require.Equal(t, "/produtos/7/imagem?v=1700000000", ProductImageURL(models.Product{ID: 7, CreatedAt: at}))
	require.Equal(t, "/contatos/3/foto?v=1700000000", ContactPhotoURL(models.Contact{ID: 3, CreatedAt: at}))
	require.Equal(t, "/banners/2/imagem?v=1700000000", BannerImageURL(models.Banner{ID: 2, CreatedAt: at}))
}

func TestMoney(t *testing.T) {
	require.Equal(t, "R$ 10,50", Money(decimal.RequireFromString("10.5")))
	require.Equal(t, "R$ 0,00", Money(decimal.Zero))
}

func TestLoadBanners(t *testing.T) {
	ctx := context.Background()
	set := LoadBanners(ctx, bannerList{items: []models.Banner{{ID: 5}, {ID: 4}}})
	require.False(t, set.Degraded)
	require.Len(t, set.Items, 2)
	require.Equal(t, uint(5), set.Active.ID)

	empty := LoadBanners(ctx, bannerList{})
	require.Nil(t, empty.Active)
	require.Equal(t, "", NewGlobals(nil, empty, nil).BannerURL())

	failed := LoadBanners(ctx, bannerList{err: errors.New("db down")})
	require.True(t, failed.Degraded)
	require.Empty(t, failed.Items)
}

func TestNewGlobals(t *testing.T) {
	g := NewGlobals(&models.User{Username: "ana", Role: models.RoleAdmin}, BannerSet{}, nil)
	require.True(t, g.Admin)
	require.Equal(t, time.Now().UTC().Year(), g.Year)

	require.False(t, NewGlobals(nil, BannerSet{}, nil).Admin)
}

func TestRenderPages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	desc := "<b>alça</b>"
	admin := NewGlobals(&models.User{Username: "ana", Role: models.RoleAdmin},
		LoadBanners(context.Background(), bannerList{items: []models.Banner{{ID: 9}}}),
		[]session.Flash{{Kind: session.FlashOK, Message: "Produto adicionado!"}})

	var buf bytes.Buffer
	products := []models.Product{{ID: 1, Name: "Caneca", Price: decimal.RequireFromString("10.5"), Description: &desc}}
	require.NoError(t, r.Render(&buf, "index.html", Page{Globals: admin, Data: products}, nil))
	out := buf.String()
	require.Contains(t, out, "Caneca")
	require.Contains(t, out, "R$ 10,50")
	require.Contains(t, out, "&lt;b&gt;alça&lt;/b&gt;")
	require.Contains(t, out, `action="/produtos/1/delete"`)
	require.Contains(t, out, "/banners/9/imagem?v=")
	require.Contains(t, out, "flash-ok")
	require.Contains(t, out, "Produto adicionado!")

	buf.Reset()
	anon := NewGlobals(nil, BannerSet{}, nil)
	require.NoError(t, r.Render(&buf, "index.html", Page{Globals: anon, Data: products}, nil))
	require.NotContains(t, buf.String(), `action="/produtos/1/delete"`)
	require.Contains(t, buf.String(), `href="/login"`)

	buf.Reset()
	contacts := []models.Contact{{ID: 2, Name: "Ana", Phone: "(11) 98888-7777"}}
	require.NoError(t, r.Render(&buf, "contatos.html", Page{Globals: anon, Data: contacts}, nil))
	require.Contains(t, buf.String(), "https://wa.me/5511988887777")

	buf.Reset()
	require.NoError(t, r.Render(&buf, "error.html", Page{Globals: anon, Data: ErrorPage{Code: 404, Title: "Página não encontrada"}}, nil))
	require.Contains(t, buf.String(), "Página não encontrada")

	require.Error(t, r.Render(&buf, "missing.html", nil, nil))
}
