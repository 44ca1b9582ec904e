package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrRoleNotFound = errors.New("role not found")

// ロール名の重複
var ErrDuplicateRole = errors.New("role already exists")

// ロールの保存・取得・削除
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	FindByName(ctx context.Context, name string) (*model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
	DeleteByName(ctx context.Context, name string) error
}
