package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type authorGormRepository struct {
	db *gorm.DB
}

// DI
func NewAuthorGormRepository(db *gorm.DB) repo.AuthorRepository {
	return &authorGormRepository{db: db}
}

// 名前の部分一致＋ページングで一覧
func (r *authorGormRepository) List(ctx context.Context, q repo.AuthorListQuery) ([]model.Author, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Author{})

	if q.Name != "" {
		base = base.Where("LOWER(first_name || ' ' || last_name) LIKE ?", "%"+strings.ToLower(q.Name)+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []model.Author
	err := base.
		Order("id").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&authors).Error

	if err != nil {
		return nil, 0, err
	}

	return authors, total, nil
}

func (r *authorGormRepository) FindByID(ctx context.Context, id int64) (*model.Author, error) {
	var a model.Author

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&a).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *authorGormRepository) Create(ctx context.Context, a *model.Author) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *authorGormRepository) Update(ctx context.Context, a *model.Author) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *authorGormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Author{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
