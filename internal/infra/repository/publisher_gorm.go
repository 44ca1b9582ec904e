package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type publisherGormRepository struct {
	db *gorm.DB
}

// DI
func NewPublisherGormRepository(db *gorm.DB) repo.PublisherRepository {
	return &publisherGormRepository{db: db}
}

func (r *publisherGormRepository) List(ctx context.Context, q repo.PublisherListQuery) ([]model.Publisher, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Publisher{})

	if q.Name != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.Name)+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var publishers []model.Publisher
	err := base.
		Order("id").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&publishers).Error

	if err != nil {
		return nil, 0, err
	}

	return publishers, total, nil
}

func (r *publisherGormRepository) FindByID(ctx context.Context, id int64) (*model.Publisher, error) {
	var p model.Publisher

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *publisherGormRepository) Create(ctx context.Context, p *model.Publisher) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *publisherGormRepository) Update(ctx context.Context, p *model.Publisher) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *publisherGormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Publisher{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
