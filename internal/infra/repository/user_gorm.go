package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	domainrepo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return domainrepo.ErrDuplicateUser
		}
		return err
	}
	return nil
}

// IDでユーザーを1件取得（ロール付き）
func (r *userGormRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	return r.findOne(ctx, "id = ?", userID)
}

// usernameでユーザーを1件取得（ロール付き）
func (r *userGormRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// emailでユーザーを1件取得
func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userGormRepository) findOne(ctx context.Context, query string, arg string) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where(query, arg).
		First(&u).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrepo.ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// ユーザーを更新。refresh tokenの上書き・失効はここを通る。
// ロールの付け外しはAddRole側なので関連は触らない
func (r *userGormRepository) Save(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error; err != nil {
		return err
	}
	return nil
}

// ユーザーを削除（中間テーブルの行も一緒に消す）
func (r *userGormRepository) Delete(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).
		Select(clause.Associations).
		Delete(&model.User{ID: userID})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainrepo.ErrUserNotFound
	}
	return nil
}

// 全ユーザー取得（管理用）
func (r *userGormRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User

	err := r.db.WithContext(ctx).
		Preload("Roles").
		Order("created_at").
		Find(&users).Error

	if err != nil {
		return nil, err
	}
	return users, nil
}

// ユーザーにロールを付与。既に付いていれば何もしない
func (r *userGormRepository) AddRole(ctx context.Context, userID string, role *model.Role) error {
	return r.db.WithContext(ctx).
		Model(&model.User{ID: userID}).
		Association("Roles").
		Append(role)
}
