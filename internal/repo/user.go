package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/loja_grid/internal/models"
)

func (r *GormRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Where("nome_usuario = ?", username).First(&user).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Select("id", "nome_usuario", "papel").Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.conn(ctx, func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
}
