package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/loja_grid/internal/models"
)

// ListBanners returns every banner newest-first without the blob column.
func (r *GormRepo) ListBanners(ctx context.Context) ([]models.Banner, error) {
	var items []models.Banner
	err := r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Select("id", "imagem_nome", "criado_em").Order("id DESC").Find(&items).Error
	})
	return items, err
}

func (r *GormRepo) CreateBanner(ctx context.Context, b *models.Banner) error {
	return r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Create(b).Error
	})
}

func (r *GormRepo) DeleteBanner(ctx context.Context, id uint) error {
	return r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Delete(&models.Banner{}, id).Error
	})
}

func (r *GormRepo) BannerImage(ctx context.Context, id uint) (*ImageBlob, error) {
	var b models.Banner
	err := r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Select("id", "imagem", "imagem_nome", "imagem_mime").Where("id = ?", id).First(&b).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &ImageBlob{Data: b.Image, MIME: b.ImageMIME, Name: b.ImageName}, nil
}
