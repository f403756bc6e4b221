package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type GormRepo struct {
	DB *gorm.DB
}

// ImageBlob is a stored image as read back for serving.
type ImageBlob struct {
	Data []byte
	MIME string
	Name string
}

// conn checks one connection out of the pool for the unit of work and returns it on every exit path.
func (r *GormRepo) conn(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.DB.WithContext(ctx).Connection(fn)
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return r.conn(ctx, func(tx *gorm.DB) error {
		var one int
		return tx.Raw("SELECT 1").Scan(&one).Error
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
