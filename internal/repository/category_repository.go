package repository

import (
	"app/internal/domain/model"
	"context"
)

type CategoryListQuery struct {
	Page  int
	Limit int
	Name  string
}

type CategoryRepository interface {
	List(ctx context.Context, q CategoryListQuery) ([]model.Category, int64, error)
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id int64) error
}
