package repository

import (
	"app/internal/domain/model"
	"context"
)

// 名前の部分一致＋ページング
type AuthorListQuery struct {
	Page  int
	Limit int
	Name  string
}

type AuthorRepository interface {
	List(ctx context.Context, q AuthorListQuery) ([]model.Author, int64, error)
	FindByID(ctx context.Context, id int64) (*model.Author, error)
	Create(ctx context.Context, a *model.Author) error
	Update(ctx context.Context, a *model.Author) error
	Delete(ctx context.Context, id int64) error
}
