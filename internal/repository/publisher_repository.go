package repository

import (
	"app/internal/domain/model"
	"context"
)

type PublisherListQuery struct {
	Page  int
	Limit int
	Name  string
}

type PublisherRepository interface {
	List(ctx context.Context, q PublisherListQuery) ([]model.Publisher, int64, error)
	FindByID(ctx context.Context, id int64) (*model.Publisher, error)
	Create(ctx context.Context, p *model.Publisher) error
	Update(ctx context.Context, p *model.Publisher) error
	Delete(ctx context.Context, id int64) error
}
