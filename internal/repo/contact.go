package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/loja_grid/internal/models"
)

func (r *GormRepo) ListContacts(ctx context.Context) ([]models.Contact, error) {
	var items []models.Contact
	err := r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Select("id", "nome", "telefone", "email", "criado_em").Order("id DESC").Find(&items).Error
	})
	return items, err
}

func (r *GormRepo) CreateContact(ctx context.Context, c *models.Contact) error {
	return r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Create(c).Error
	})
}

func (r *GormRepo) UpdateContact(ctx context.Context, c *models.Contact, withPhoto bool) error {
	updates := map[string]any{
		"nome":     c.Name,
		"telefone": c.Phone,
		"email":    c.Email,
	}
	if withPhoto {
		updates["foto"] = c.Photo
		updates["foto_nome"] = c.PhotoName
		updates["foto_mime"] = c.PhotoMIME
	}
	return r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Model(&models.Contact{}).Where("id = ?", c.ID).Updates(updates).Error
	})
}

func (r *GormRepo) DeleteContact(ctx context.Context, id uint) error {
	return r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Delete(&models.Contact{}, id).Error
	})
}

func (r *GormRepo) ContactPhoto(ctx context.Context, id uint) (*ImageBlob, error) {
	var c models.Contact
	err := r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Select("id", "foto", "foto_nome", "foto_mime").Where("id = ?", id).First(&c).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	if len(c.Photo) == 0 {
		return nil, ErrNotFound
	}
	return &ImageBlob{Data: c.Photo, MIME: strOrEmpty(c.PhotoMIME), Name: strOrEmpty(c.PhotoName)}, nil
}
