package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja_grid/internal/models"
)

type SearchPage struct {
	Query    string
	Products []models.Product
}

func (h *Handler) Index(c echo.Context) error {
	products, err := h.Catalog.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "index.html", products)
}

func (h *Handler) About(c echo.Context) error {
	return h.render(c, http.StatusOK, "about.html", nil)
}

func (h *Handler) Contacts(c echo.Context) error {
	contacts, err := h.Catalog.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "contatos.html", contacts)
}

func (h *Handler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	products, err := h.Catalog.SearchProducts(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "busca.html", SearchPage{Query: q, Products: products})
}

func (h *Handler) Admin(c echo.Context) error {
	return h.render(c, http.StatusOK, "admin.html", nil)
}
