package httpserver

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja_grid/internal/logging"
	"github.com/Skotchmaster/loja_grid/internal/media"
	"github.com/Skotchmaster/loja_grid/internal/repo"
	"github.com/Skotchmaster/loja_grid/internal/service"
	"github.com/Skotchmaster/loja_grid/internal/session"
)

func productForm(c echo.Context) (service.ProductForm, error) {
	if err := parseForm(c); err != nil {
		return service.ProductForm{}, err
	}
	upload, err := formFile(c, "imagem")
	if err != nil {
		return service.ProductForm{}, err
	}
	return service.ProductForm{
		Name:        c.FormValue("nome"),
		Price:       c.FormValue("preco"),
		Description: c.FormValue("descricao"),
		Upload:      upload,
	}, nil
}

func contactForm(c echo.Context) (service.ContactForm, error) {
	if err := parseForm(c); err != nil {
		return service.ContactForm{}, err
	}
	upload, err := formFile(c, "foto")
	if err != nil {
		return service.ContactForm{}, err
	}
	return service.ContactForm{
		Name:   c.FormValue("nome"),
		Phone:  c.FormValue("telefone"),
		Email:  c.FormValue("email"),
		Upload: upload,
	}, nil
}

func (h *Handler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	form, err := productForm(c)
	if err != nil {
		return err
	}
	p, err := h.Catalog.CreateProduct(ctx, form)
	if err != nil {
		return mutationFailed(c, err, "/")
	}
	logging.FromContext(ctx).Info("product_created", "id", p.ID)
	return done(c, session.FlashOK, "Produto adicionado!", "/")
}

func (h *Handler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}
	form, err := productForm(c)
	if err != nil {
		return err
	}
	if _, err := h.Catalog.UpdateProduct(ctx, id, form); err != nil {
		return mutationFailed(c, err, "/")
	}
	logging.FromContext(ctx).Info("product_updated", "id", id)
	return done(c, session.FlashOK, "Produto atualizado.", "/")
}

func (h *Handler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProduct(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("product_deleted", "id", id)
	return done(c, session.FlashInfo, "Produto excluído.", "/")
}

func (h *Handler) ProductImage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	blob, err := h.Catalog.ProductImage(c.Request().Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		return media.ServePlaceholder(c)
	}
	if err != nil {
		return err
	}
	return media.Serve(c, blob.Data, blob.MIME, media.DownloadName(fmt.Sprintf("produto_%d", id), blob.Name))
}

func (h *Handler) CreateContact(c echo.Context) error {
	ctx := c.Request().Context()
	form, err := contactForm(c)
	if err != nil {
		return err
	}
	ct, err := h.Catalog.CreateContact(ctx, form)
	if err != nil {
		return mutationFailed(c, err, "/contatos")
	}
	logging.FromContext(ctx).Info("contact_created", "id", ct.ID)
	return done(c, session.FlashOK, "Contato criado.", "/contatos")
}

func (h *Handler) UpdateContact(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}
	form, err := contactForm(c)
	if err != nil {
		return err
	}
	if _, err := h.Catalog.UpdateContact(ctx, id, form); err != nil {
		return mutationFailed(c, err, "/contatos")
	}
	logging.FromContext(ctx).Info("contact_updated", "id", id)
	return done(c, session.FlashOK, "Contato atualizado.", "/contatos")
}

func (h *Handler) DeleteContact(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteContact(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("contact_deleted", "id", id)
	return done(c, session.FlashInfo, "Contato excluído.", "/contatos")
}

func (h *Handler) ContactPhoto(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	blob, err := h.Catalog.ContactPhoto(c.Request().Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		return media.ServePlaceholder(c)
	}
	if err != nil {
		return err
	}
	return media.Serve(c, blob.Data, blob.MIME, media.DownloadName(fmt.Sprintf("contato_%d", id), blob.Name))
}

func (h *Handler) CreateBanner(c echo.Context) error {
	ctx := c.Request().Context()
	if err := parseForm(c); err != nil {
		return err
	}
	upload, err := formFile(c, "imagem")
	if err != nil {
		return err
	}
	b, err := h.Catalog.CreateBanner(ctx, upload)
	if err != nil {
		return mutationFailed(c, err, "/")
	}
	logging.FromContext(ctx).Info("banner_created", "id", b.ID)
	return done(c, session.FlashOK, "Banner salvo.", "/")
}

func (h *Handler) DeleteBanner(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteBanner(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("banner_deleted", "id", id)
	return done(c, session.FlashInfo, "Banner excluído.", "/")
}

// BannerImage answers 404 for a missing banner; there is no placeholder.
func (h *Handler) BannerImage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	blob, err := h.Catalog.BannerImage(c.Request().Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return media.Serve(c, blob.Data, blob.MIME, media.DownloadName(fmt.Sprintf("banner_%d", id), blob.Name))
}
