package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 1ページの上限
const MaxPageSize = 50

// 一覧検索。フィルタは空なら無視される
type BookListQuery struct {
	Page      int
	Limit     int
	Title     string
	Author    string
	Publisher string
	Category  string
	Year      *int
}

// 書籍の永続化だけを約束。読み取りはAuthor/Publisher/Categories込みで返す。
type BookRepository interface {
	List(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id int64) (*model.Book, error)
	Search(ctx context.Context, q BookListQuery) ([]model.Book, int64, error)

	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	// 書籍のカテゴリ集合を丸ごと置き換える
	ReplaceCategories(ctx context.Context, bookID int64, categories []model.Category) error
	Delete(ctx context.Context, id int64) error
}
