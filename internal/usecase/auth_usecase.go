package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/token"
)

var (
	//401 ログイン失敗。ユーザー不在とパスワード違いは区別しない
	ErrInvalidCredentials = errors.New("invalid credentials")
	//400 refreshの入力不足
	ErrInvalidRequest = errors.New("invalid request")
	//401 アクセストークンの署名・iss・aud・algが不正
	ErrInvalidToken = errors.New("invalid token")
	//401 refresh tokenの不一致・期限切れ・ユーザー不在（呼び出し側には区別させない）
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	//404
	ErrNotFound = errors.New("not found")
	//409 username/emailの重複
	ErrConflict = errors.New("conflict")
	//500
	ErrInternal = errors.New("internal error")
)

// usecaseがvalidatorに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, username string, email string, password string) error
	ValidateLogin(ctx context.Context, username string, password string) error
}

// 平文パスワードからハッシュへ
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// jti・ユーザーIDの採番
type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

type AuthUsecase struct {
	users     repository.UserRepository
	tokens    *token.Service
	validator AuthValidator
	hasher    PasswordHasher
	verifier  PasswordVerifier
	idGen     IDGenerator
	clock     Clock
}

// DI
func NewAuthUsecase(
	users repository.UserRepository,
	tokens *token.Service,
	validator AuthValidator,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	idGen IDGenerator,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		tokens:    tokens,
		validator: validator,
		hasher:    hasher,
		verifier:  verifier,
		idGen:     idGen,
		clock:     clock,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type RegisterOutput struct {
	User model.User `json:"user"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	if err := u.validator.ValidateRegister(ctx, in.Username, in.Email, in.Password); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	//username/email重複チェック
	if existing, err := u.users.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, ErrConflict
	}
	if existing, err := u.users.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrConflict
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, ErrInternal
	}

	user := &model.User{
		ID:           u.idGen.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := u.users.Create(ctx, user); err != nil {
		// DB側のunique制約に負けた場合もConflict扱い
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrConflict
		}
		return nil, ErrInternal
	}

	safe := *user
	safe.PasswordHash = ""
	return &RegisterOutput{User: safe}, nil
}

type LoginInput struct {
	Username string
	Password string
}

// handlerがそのままJSONにして返す
type LoginOutput struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	Expiration   time.Time `json:"expiration"`
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	if err := u.validator.ValidateLogin(ctx, in.Username, in.Password); err != nil {
		return nil, err
	}

	user, err := u.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrInternal
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return nil, ErrInvalidCredentials
	}

	//クレーム構築（jtiは毎回新しく）
	now := u.clock.Now()
	claims := token.Claims{
		Name:  user.Username,
		Email: user.Email,
		Roles: user.RoleNames(),
	}
	claims.ID = u.idGen.NewID()
	claims.Subject = user.ID

	accessToken, validTo, err := u.tokens.GenerateAccessToken(claims, now)
	if err != nil {
		return nil, ErrInternal
	}

	refreshToken, err := u.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, ErrInternal
	}

	//refresh tokenと期限をユーザー行に保存（前のtokenは上書きで失効）
	expiry := u.tokens.RefreshTokenExpiry(now)
	user.RefreshToken = &refreshToken
	user.RefreshTokenExpiry = &expiry

	if err := u.users.Save(ctx, user); err != nil {
		return nil, ErrInternal
	}

	return &LoginOutput{
		Token:        accessToken,
		RefreshToken: refreshToken,
		Expiration:   validTo,
	}, nil
}

type RefreshInput struct {
	AccessToken  string
	RefreshToken string
}

type RefreshOutput struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (u *AuthUsecase) Refresh(ctx context.Context, in RefreshInput) (*RefreshOutput, error) {
	//入力検証
	if in.AccessToken == "" || in.RefreshToken == "" {
		return nil, ErrInvalidRequest
	}

	//期限切れトークンからクレームを回収（expは見ない）
	claims, err := u.tokens.PrincipalFromExpiredToken(in.AccessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID := claims.Subject
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidToken
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, ErrInternal
	}

	//保存されているtokenと一致し、かつ期限内であること。
	//不一致・期限切れ・未保存は呼び出し側からは区別できない
	now := u.clock.Now()
	if user.RefreshToken == nil || *user.RefreshToken != in.RefreshToken {
		return nil, ErrInvalidOrExpiredToken
	}
	if user.RefreshTokenExpiry == nil || !user.RefreshTokenExpiry.After(now) {
		return nil, ErrInvalidOrExpiredToken
	}

	//元のクレーム一式をそのまま使って再発行（ロールは再取得しない）
	newAccessToken, _, err := u.tokens.GenerateAccessToken(*claims, now)
	if err != nil {
		return nil, ErrInternal
	}

	newRefreshToken, err := u.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, ErrInternal
	}

	//旧refresh tokenは上書きで即失効（再利用の猶予なし）
	expiry := u.tokens.RefreshTokenExpiry(now)
	user.RefreshToken = &newRefreshToken
	user.RefreshTokenExpiry = &expiry

	if err := u.users.Save(ctx, user); err != nil {
		return nil, ErrInternal
	}

	return &RefreshOutput{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// RevokeByIDは保存中のrefresh tokenを破棄する。
// 発行済みアクセストークンは自身のexpまで有効なまま（ブラックリストは持たない）。
func (u *AuthUsecase) RevokeByID(ctx context.Context, userID string) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return u.revoke(ctx, user)
}

// RevokeByUsernameはRevokeByIDのusername版。対象解決のみ異なる
func (u *AuthUsecase) RevokeByUsername(ctx context.Context, username string) error {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return u.revoke(ctx, user)
}

func (u *AuthUsecase) revoke(ctx context.Context, user *model.User) error {
	//2回目以降も同じ結果になる（冪等）
	user.RefreshToken = nil
	user.RefreshTokenExpiry = nil

	if err := u.users.Save(ctx, user); err != nil {
		return ErrInternal
	}
	return nil
}
