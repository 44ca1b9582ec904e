package usecase

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"
)

// ユーザー・ロールの管理系（admin専用）
type UserAdminUsecase struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// DI
func NewUserAdminUsecase(users repository.UserRepository, roles repository.RoleRepository) *UserAdminUsecase {
	return &UserAdminUsecase{users: users, roles: roles}
}

func (u *UserAdminUsecase) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	//ハッシュは返さない
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (u *UserAdminUsecase) DeleteUser(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrInvalidRequest
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	if err := u.users.Delete(ctx, user.ID); err != nil {
		return ErrInternal
	}
	return nil
}

func (u *UserAdminUsecase) ListRoles(ctx context.Context) ([]model.Role, error) {
	roles, err := u.roles.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return roles, nil
}

func (u *UserAdminUsecase) CreateRole(ctx context.Context, name string) (*model.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidRequest
	}

	if existing, err := u.roles.FindByName(ctx, name); err == nil && existing != nil {
		return nil, ErrConflict
	}

	role := &model.Role{Name: name}
	if err := u.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicateRole) {
			return nil, ErrConflict
		}
		return nil, ErrInternal
	}
	return role, nil
}

func (u *UserAdminUsecase) DeleteRole(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidRequest
	}

	if err := u.roles.DeleteByName(ctx, name); err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

// AssignRoleはemailで引いたユーザーにロールを付与する
func (u *UserAdminUsecase) AssignRole(ctx context.Context, email string, roleName string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	roleName = strings.TrimSpace(roleName)
	if email == "" || roleName == "" {
		return ErrInvalidRequest
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	role, err := u.roles.FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	if err := u.users.AddRole(ctx, user.ID, role); err != nil {
		return ErrInternal
	}
	return nil
}
