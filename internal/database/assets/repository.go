package assets

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/contentmigrate/internal/database"
	"github.com/mrlokans/contentmigrate/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindBySHA1 returns the asset with the given content hash.
func (r *Repository) FindBySHA1(ctx context.Context, sum string) (*entities.Asset, error) {
	var asset entities.Asset
	err := r.db.WithContext(ctx).Where("sha1 = ?", sum).First(&asset).Error
	if err != nil {
		return nil, database.NotFound(err)
	}
	return &asset, nil
}

func (r *Repository) Create(ctx context.Context, asset *entities.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}
