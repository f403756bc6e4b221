package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/loja_grid/internal/models"
)

const ProductListLimit = 100

var productListColumns = []string{"id", "nome", "descricao", "preco", "criado_em"}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	err := r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Select(productListColumns).Order("id DESC").Limit(ProductListLimit).Find(&items).Error
	})
	return items, err
}

func (r *GormRepo) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	var items []models.Product
	err := r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Select(productListColumns).
			Where("LOWER(nome) LIKE ? OR LOWER(descricao) LIKE ?", pattern, pattern).
			Order("id DESC").Limit(ProductListLimit).Find(&items).Error
	})
	return items, err
}

// ProductsByIDs keeps the order of ids, skipping ids that no longer exist.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Product
	err := r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Select(productListColumns).Where("id IN ?", ids).Find(&found).Error
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	items := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			items = append(items, p)
		}
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Create(p).Error
	})
}

// UpdateProduct writes the text fields of p; the image columns are written only when withImage is set.
func (r *GormRepo) UpdateProduct(ctx context.Context, p *models.Product, withImage bool) error {
	updates := map[string]any{
		"nome":      p.Name,
		"descricao": p.Description,
		"preco":     p.Price,
	}
	if withImage {
		updates["imagem"] = p.Image
		updates["imagem_nome"] = p.ImageName
		updates["imagem_mime"] = p.ImageMIME
		updates["imagem_tamanho"] = p.ImageSize
	}
	return r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Model(&models.Product{}).Where("id = ?", p.ID).Updates(updates).Error
	})
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Delete(&models.Product{}, id).Error
	})
}

func (r *GormRepo) ProductImage(ctx context.Context, id uint) (*ImageBlob, error) {
	var p models.Product
	err := r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Select("id", "imagem", "imagem_nome", "imagem_mime").Where("id = ?", id).First(&p).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	if len(p.Image) == 0 {
		return nil, ErrNotFound
	}
	return &ImageBlob{Data: p.Image, MIME: strOrEmpty(p.ImageMIME), Name: strOrEmpty(p.ImageName)}, nil
}
