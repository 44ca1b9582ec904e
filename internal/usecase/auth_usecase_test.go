package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/token"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// =====================
// Mock: UserRepository
// =====================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) AddRole(ctx context.Context, userID string, role *model.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// =====================
// Mock: AuthValidator
// =====================

type MockAuthValidator struct {
	mock.Mock
}

func (m *MockAuthValidator) ValidateRegister(ctx context.Context, username string, email string, password string) error {
	args := m.Called(ctx, username, email, password)
	return args.Error(0)
}

func (m *MockAuthValidator) ValidateLogin(ctx context.Context, username string, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

// =====================
// Helper
// =====================

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type seqIDGenerator struct {
	n int
}

func (g *seqIDGenerator) NewID() string {
	g.n++
	return "id-" + string(rune('0'+g.n))
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return string(b)
}

func newTokenService(t *testing.T) *token.Service {
	t.Helper()
	svc, err := token.NewService(config.Config{
		JWTSecret:           "test-secret",
		JWTIssuer:           "library-api",
		JWTAudience:         "library-clients",
		AccessTokenMinutes:  15,
		RefreshTokenMinutes: 60 * 24,
	})
	require.NoError(t, err)
	return svc
}

func newAuthUC(t *testing.T, userRepo *MockUserRepository, v *MockAuthValidator, clock usecase.Clock) *usecase.AuthUsecase {
	t.Helper()
	return usecase.NewAuthUsecase(
		userRepo,
		newTokenService(t),
		v,
		usecase.NewBcryptPasswordHasher(bcrypt.MinCost),
		usecase.NewBcryptPasswordVerifier(),
		&seqIDGenerator{},
		clock,
	)
}

func activeUser(t *testing.T, pass string) *model.User {
	t.Helper()
	return &model.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@test.com",
		PasswordHash: mustHash(t, pass),
		Roles:        []model.Role{{ID: 1, Name: model.RoleUser}},
	}
}

// =====================
// Register
// =====================

func TestAuthUsecase_Register_Success(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	v.On("ValidateRegister", mock.Anything, "alice", "alice@test.com", "Password1").Return(nil)

	// 重複なし
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	userRepo.On("FindByEmail", mock.Anything, "alice@test.com").Return(nil, repository.ErrUserNotFound)

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 保存されるユーザーが最低限正しい形かを見る
		return u.Username == "alice" && u.Email == "alice@test.com" && u.ID != "" && u.PasswordHash != "" && u.PasswordHash != "Password1"
	})).Return(nil)

	u := newAuthUC(t, userRepo, v, &fixedClock{now: time.Now()})

	out, err := u.Register(ctx, usecase.RegisterInput{Username: "alice", Email: "alice@test.com", Password: "Password1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", out.User.Username)

	// ハッシュは外に出さない
	assert.Empty(t, out.User.PasswordHash)

	userRepo.AssertExpectations(t)
	v.AssertExpectations(t)
}

func TestAuthUsecase_Register_DuplicateUsername(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	v.On("ValidateRegister", mock.Anything, "alice", "alice@test.com", "Password1").Return(nil)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(activeUser(t, "x"), nil)

	u := newAuthUC(t, userRepo, v, &fixedClock{now: time.Now()})

	_, err := u.Register(ctx, usecase.RegisterInput{Username: "alice", Email: "alice@test.com", Password: "Password1"})
	assert.ErrorIs(t, err, usecase.ErrConflict)

	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// Login
// =====================

func TestAuthUsecase_Login_Success(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	pass := "CorrectPW1"
	user := activeUser(t, pass)

	v.On("ValidateLogin", mock.Anything, "alice", pass).Return(nil)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	// refresh tokenと期限がユーザー行に書き込まれる
	userRepo.On("Save", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.RefreshToken != nil && *u.RefreshToken != "" && u.RefreshTokenExpiry != nil
	})).Return(nil)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	u := newAuthUC(t, userRepo, v, &fixedClock{now: now})

	out, err := u.Login(ctx, usecase.LoginInput{Username: "alice", Password: pass})
	require.NoError(t, err)

	assert.NotEmpty(t, out.Token)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, now.Add(15*time.Minute), out.Expiration)

	// 返したrefresh tokenは保存したものと同じ
	assert.Equal(t, *user.RefreshToken, out.RefreshToken)

	// 発行したアクセストークンにユーザーの中身が入っている
	claims, perr := newTokenService(t).PrincipalFromExpiredToken(out.Token)
	require.NoError(t, perr)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, "alice@test.com", claims.Email)
	assert.Equal(t, []string{model.RoleUser}, claims.Roles)
	assert.NotEmpty(t, claims.ID)

	userRepo.AssertExpectations(t)
	v.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	v.On("ValidateLogin", mock.Anything, "alice", "WrongPW").Return(nil)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(activeUser(t, "CorrectPW1"), nil)

	u := newAuthUC(t, userRepo, v, &fixedClock{now: time.Now()})

	out, err := u.Login(ctx, usecase.LoginInput{Username: "alice", Password: "WrongPW"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)

	// refresh tokenは保存されない
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_UnknownUser(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	v.On("ValidateLogin", mock.Anything, "ghost", "Password1").Return(nil)
	userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)

	u := newAuthUC(t, userRepo, v, &fixedClock{now: time.Now()})

	// 存在しないユーザーもパスワード違いと同じ応答にする
	_, err := u.Login(ctx, usecase.LoginInput{Username: "ghost", Password: "Password1"})
	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
}

// =====================
// Refresh
// =====================

func loginFor(t *testing.T, userRepo *MockUserRepository, v *MockAuthValidator, user *model.User, pass string, clock *fixedClock) (*usecase.AuthUsecase, *usecase.LoginOutput) {
	t.Helper()

	v.On("ValidateLogin", mock.Anything, user.Username, pass).Return(nil)
	userRepo.On("FindByUsername", mock.Anything, user.Username).Return(user, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	u := newAuthUC(t, userRepo, v, clock)
	out, err := u.Login(context.Background(), usecase.LoginInput{Username: user.Username, Password: pass})
	require.NoError(t, err)
	return u, out
}

func TestAuthUsecase_Refresh_RotatesToken(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	pass := "CorrectPW1"
	user := activeUser(t, pass)
	clock := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	u, login := loginFor(t, userRepo, v, user, pass, clock)
	userRepo.On("FindByID", mock.Anything, "user-1").Return(user, nil)

	// アクセストークンの期限が切れた後の時刻
	clock.now = clock.now.Add(30 * time.Minute)

	out, err := u.Refresh(ctx, usecase.RefreshInput{
		AccessToken:  login.Token,
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)

	// 新しいペアが出て、refresh tokenは回転している
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEqual(t, login.RefreshToken, out.RefreshToken)

	// ユーザー行にも新しいtokenが載っている
	assert.Equal(t, out.RefreshToken, *user.RefreshToken)

	// 古いrefresh tokenはもう使えない
	_, err = u.Refresh(ctx, usecase.RefreshInput{
		AccessToken:  login.Token,
		RefreshToken: login.RefreshToken,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidOrExpiredToken)
}

func TestAuthUsecase_Refresh_EmptyInputs(t *testing.T) {
	ctx := context.Background()

	u := newAuthUC(t, new(MockUserRepository), new(MockAuthValidator), &fixedClock{now: time.Now()})

	_, err := u.Refresh(ctx, usecase.RefreshInput{AccessToken: "", RefreshToken: "r"})
	assert.ErrorIs(t, err, usecase.ErrInvalidRequest)

	_, err = u.Refresh(ctx, usecase.RefreshInput{AccessToken: "a", RefreshToken: ""})
	assert.ErrorIs(t, err, usecase.ErrInvalidRequest)
}

func TestAuthUsecase_Refresh_GarbageAccessToken(t *testing.T) {
	ctx := context.Background()

	u := newAuthUC(t, new(MockUserRepository), new(MockAuthValidator), &fixedClock{now: time.Now()})

	_, err := u.Refresh(ctx, usecase.RefreshInput{AccessToken: "garbage", RefreshToken: "whatever"})
	assert.ErrorIs(t, err, usecase.ErrInvalidToken)
}

func TestAuthUsecase_Refresh_ExpiredRefreshToken(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	pass := "CorrectPW1"
	user := activeUser(t, pass)
	clock := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	u, login := loginFor(t, userRepo, v, user, pass, clock)
	userRepo.On("FindByID", mock.Anything, "user-1").Return(user, nil)

	// refresh token自体の期限も過ぎた時刻まで進める
	clock.now = clock.now.Add(25 * time.Hour)

	_, err := u.Refresh(ctx, usecase.RefreshInput{
		AccessToken:  login.Token,
		RefreshToken: login.RefreshToken,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidOrExpiredToken)
}

// =====================
// Revoke
// =====================

func TestAuthUsecase_Revoke_BlocksRefresh(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	pass := "CorrectPW1"
	user := activeUser(t, pass)
	clock := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	u, login := loginFor(t, userRepo, v, user, pass, clock)
	userRepo.On("FindByID", mock.Anything, "user-1").Return(user, nil)

	require.NoError(t, u.RevokeByID(ctx, "user-1"))

	// 破棄後はユーザー行からtokenが消えている
	assert.Nil(t, user.RefreshToken)
	assert.Nil(t, user.RefreshTokenExpiry)

	// 破棄済みのtokenではrefreshできない
	_, err := u.Refresh(ctx, usecase.RefreshInput{
		AccessToken:  login.Token,
		RefreshToken: login.RefreshToken,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidOrExpiredToken)

	// 2回目のrevokeも同じ結果（冪等）
	assert.NoError(t, u.RevokeByID(ctx, "user-1"))
}

func TestAuthUsecase_Revoke_UnknownUser(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)
	userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)

	u := newAuthUC(t, userRepo, new(MockAuthValidator), &fixedClock{now: time.Now()})

	assert.ErrorIs(t, u.RevokeByID(ctx, "ghost"), usecase.ErrNotFound)
	assert.ErrorIs(t, u.RevokeByUsername(ctx, "ghost"), usecase.ErrNotFound)
}
