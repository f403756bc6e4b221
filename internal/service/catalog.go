package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/Skotchmaster/loja_grid/internal/events"
	"github.com/Skotchmaster/loja_grid/internal/logging"
	"github.com/Skotchmaster/loja_grid/internal/media"
	"github.com/Skotchmaster/loja_grid/internal/models"
	"github.com/Skotchmaster/loja_grid/internal/repo"
	"github.com/Skotchmaster/loja_grid/internal/search"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Search search.Engine
}

func NewCatalogService(r *repo.GormRepo, pub events.Publisher, engine search.Engine) *CatalogService {
	if pub == nil {
		pub = events.Noop{}
	}
	if engine == nil {
		engine = &search.SQL{Repo: r}
	}
	return &CatalogService{Repo: r, Events: pub, Search: engine}
}

type ProductForm struct {
	Name        string
	Price       string
	Description string
	Upload      *multipart.FileHeader
}

type ContactForm struct {
	Name   string
	Phone  string
	Email  string
	Upload *multipart.FileHeader
}

// after runs the best-effort side effects of a write; failures are logged and never fail the request.
func (s *CatalogService) after(ctx context.Context, e events.Event, sideEffect func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	l := logging.FromContext(ctx)

	e.At = time.Now().UTC()
	if err := s.Events.Publish(ctx, e); err != nil {
		l.Error("event_publish_failed", "type", e.Type, "id", e.ID, "error", err)
	}
	if sideEffect != nil {
		if err := sideEffect(ctx); err != nil {
			l.Error("search_index_failed", "type", e.Type, "id", e.ID, "error", err)
		}
	}
}

func (s *CatalogService) Health(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

// SearchProducts falls back to the SQL search when the search engine is unavailable.
func (s *CatalogService) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.Repo.ListProducts(ctx)
	}
	items, err := s.Search.Search(ctx, q)
	if err != nil {
		logging.FromContext(ctx).Warn("search_degraded", "reason", "search engine failed", "error", err)
		return s.Repo.SearchProducts(ctx, q)
	}
	return items, nil
}

func (s *CatalogService) productFromForm(form ProductForm, nameMsg, imageMsg string) (*models.Product, *media.Image, error) {
	name := cleanText(strings.TrimSpace(form.Name))
	if name == "" {
		return nil, nil, invalid(nameMsg)
	}
	price, ok := ParsePrice(form.Price)
	if !ok {
		return nil, nil, invalid("Preço inválido.")
	}
	img, err := media.FromUpload(form.Upload)
	if err != nil {
		if errors.Is(err, media.ErrNotImage) {
			return nil, nil, invalid(imageMsg)
		}
		return nil, nil, err
	}

	p := &models.Product{
		Name:        name,
		Description: optional(cleanText(form.Description)),
		Price:       price,
	}
	if img != nil {
		p.Image = img.Data
		p.ImageName = &img.Name
		p.ImageMIME = &img.MIME
		p.ImageSize = &img.Size
	}
	return p, img, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, form ProductForm) (*models.Product, error) {
	p, _, err := s.productFromForm(form, "Informe o nome do produto.", "Arquivo de imagem inválido.")
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.after(ctx, events.Event{Type: events.ProductCreated, ID: p.ID, Name: p.Name}, func(ctx context.Context) error {
		return s.Search.Index(ctx, p)
	})
	return p, nil
}

// UpdateProduct rewrites the text fields; the image columns change only when a new image is uploaded.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, form ProductForm) (*models.Product, error) {
	p, img, err := s.productFromForm(form, "Nome é obrigatório.", "Imagem inválida.")
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.Repo.UpdateProduct(ctx, p, img != nil); err != nil {
		return nil, err
	}
	s.after(ctx, events.Event{Type: events.ProductUpdated, ID: p.ID, Name: p.Name}, func(ctx context.Context) error {
		return s.Search.Index(ctx, p)
	})
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.after(ctx, events.Event{Type: events.ProductDeleted, ID: id}, func(ctx context.Context) error {
		return s.Search.Remove(ctx, id)
	})
	return nil
}

func (s *CatalogService) ProductImage(ctx context.Context, id uint) (*repo.ImageBlob, error) {
	return s.Repo.ProductImage(ctx, id)
}

func (s *CatalogService) ListContacts(ctx context.Context) ([]models.Contact, error) {
	return s.Repo.ListContacts(ctx)
}

func contactFromForm(form ContactForm) (*models.Contact, *media.Image, error) {
	name := cleanText(strings.TrimSpace(form.Name))
	phone := cleanText(strings.TrimSpace(form.Phone))
	if name == "" || phone == "" {
		return nil, nil, invalid("Nome e telefone são obrigatórios.")
	}
	img, err := media.FromUpload(form.Upload)
	if err != nil {
		if errors.Is(err, media.ErrNotImage) {
			return nil, nil, invalid("Foto inválida.")
		}
		return nil, nil, err
	}

	c := &models.Contact{
		Name:  name,
		Phone: phone,
		Email: optional(cleanText(strings.TrimSpace(form.Email))),
	}
	if img != nil {
		c.Photo = img.Data
		c.PhotoName = &img.Name
		c.PhotoMIME = &img.MIME
	}
	return c, img, nil
}

func (s *CatalogService) CreateContact(ctx context.Context, form ContactForm) (*models.Contact, error) {
	c, _, err := contactFromForm(form)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateContact(ctx, c); err != nil {
		return nil, err
	}
	s.after(ctx, events.Event{Type: events.ContactCreated, ID: c.ID, Name: c.Name}, nil)
	return c, nil
}

func (s *CatalogService) UpdateContact(ctx context.Context, id uint, form ContactForm) (*models.Contact, error) {
	c, img, err := contactFromForm(form)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.Repo.UpdateContact(ctx, c, img != nil); err != nil {
		return nil, err
	}
	s.after(ctx, events.Event{Type: events.ContactUpdated, ID: c.ID, Name: c.Name}, nil)
	return c, nil
}

func (s *CatalogService) DeleteContact(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteContact(ctx, id); err != nil {
		return err
	}
	s.after(ctx, events.Event{Type: events.ContactDeleted, ID: id}, nil)
	return nil
}

func (s *CatalogService) ContactPhoto(ctx context.Context, id uint) (*repo.ImageBlob, error) {
	return s.Repo.ContactPhoto(ctx, id)
}

func (s *CatalogService) ListBanners(ctx context.Context) ([]models.Banner, error) {
	return s.Repo.ListBanners(ctx)
}

// CreateBanner requires an image upload.
func (s *CatalogService) CreateBanner(ctx context.Context, upload *multipart.FileHeader) (*models.Banner, error) {
	img, err := media.FromUpload(upload)
	if errors.Is(err, media.ErrNotImage) || (err == nil && img == nil) {
		return nil, invalid("Envie uma imagem válida para o banner.")
	}
	if err != nil {
		return nil, err
	}

	b := &models.Banner{Image: img.Data, ImageName: img.Name, ImageMIME: img.MIME}
	if err := s.Repo.CreateBanner(ctx, b); err != nil {
		return nil, err
	}
	s.after(ctx, events.Event{Type: events.BannerCreated, ID: b.ID, Name: b.ImageName}, nil)
	return b, nil
}

func (s *CatalogService) DeleteBanner(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteBanner(ctx, id); err != nil {
		return err
	}
	s.after(ctx, events.Event{Type: events.BannerDeleted, ID: id}, nil)
	return nil
}

func (s *CatalogService) BannerImage(ctx context.Context, id uint) (*repo.ImageBlob, error) {
	return s.Repo.BannerImage(ctx, id)
}
