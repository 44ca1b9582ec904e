package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// username/emailの重複
var ErrDuplicateUser = errors.New("username or email already used")

// 認証まわりが依存する唯一の永続化の約束。
// refresh tokenとその期限もこの1レコードに載る。
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する（ロール付き）
	FindByID(ctx context.Context, userID string) (*model.User, error)
	//usernameからユーザーを1件取得する（ロール付き）
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	//メールからユーザーを1件取得する
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ユーザー情報の更新=>refresh tokenの上書き・失効など
	Save(ctx context.Context, user *model.User) error
	//ユーザー削除
	Delete(ctx context.Context, userID string) error
	//全ユーザー取得（管理用）
	List(ctx context.Context) ([]model.User, error)
	//ユーザーにロールを付与
	AddRole(ctx context.Context, userID string, role *model.Role) error
}
