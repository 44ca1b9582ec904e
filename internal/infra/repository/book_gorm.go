package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookGormRepository struct {
	db *gorm.DB
}

// DI
func NewBookGormRepository(db *gorm.DB) repo.BookRepository {
	return &bookGormRepository{db: db}
}

// 読み取りは常にAuthor/Publisher/Categories込み
func (r *bookGormRepository) withPreloads(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Publisher").
		Preload("Categories")
}

func (r *bookGormRepository) List(ctx context.Context) ([]model.Book, error) {
	var books []model.Book

	if err := r.withPreloads(ctx).Order("books.id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookGormRepository) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	var b model.Book

	err := r.withPreloads(ctx).
		Where("books.id = ?", id).
		First(&b).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}

	return &b, nil
}

// フィルタ付き検索（空フィルタは無視）＋ページング
func (r *bookGormRepository) Search(ctx context.Context, q repo.BookListQuery) ([]model.Book, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Book{})

	if q.Title != "" {
		base = base.Where("LOWER(books.title) LIKE ?", "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Author != "" {
		base = base.
			Joins("JOIN authors ON authors.id = books.author_id").
			Where("LOWER(authors.first_name || ' ' || authors.last_name) LIKE ?", "%"+strings.ToLower(q.Author)+"%")
	}
	if q.Publisher != "" {
		base = base.
			Joins("JOIN publishers ON publishers.id = books.publisher_id").
			Where("LOWER(publishers.name) LIKE ?", "%"+strings.ToLower(q.Publisher)+"%")
	}
	if q.Category != "" {
		base = base.
			Joins("JOIN book_categories ON book_categories.book_id = books.id").
			Joins("JOIN categories ON categories.id = book_categories.category_id").
			Where("LOWER(categories.name) LIKE ?", "%"+strings.ToLower(q.Category)+"%").
			Distinct("books.*")
	}
	if q.Year != nil {
		base = base.Where("books.publication_year = ?", *q.Year)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("books.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []model.Book
	err := base.
		Preload("Author").
		Preload("Publisher").
		Preload("Categories").
		Order("books.id").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&books).Error

	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (r *bookGormRepository) Create(ctx context.Context, b *model.Book) error {
	//Categoriesは中間テーブルに行だけ作る（カテゴリ本体は触らない）
	return r.db.WithContext(ctx).
		Omit("Categories.*").
		Create(b).Error
}

func (r *bookGormRepository) Update(ctx context.Context, b *model.Book) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(b).Error
}

// カテゴリ集合を置き換え。空スライスで全解除
func (r *bookGormRepository) ReplaceCategories(ctx context.Context, bookID int64, categories []model.Category) error {
	return r.db.WithContext(ctx).
		Model(&model.Book{ID: bookID}).
		Association("Categories").
		Replace(&categories)
}

func (r *bookGormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Select(clause.Associations).
		Delete(&model.Book{ID: id})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
