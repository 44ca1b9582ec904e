package main

import (
	"log"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/middleware"
	"app/internal/server"
	"app/internal/token"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Author{},
		&model.Publisher{},
		&model.Category{},
		&model.Book{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//ロールと初期管理者
	if err := db.Seed(gormDB, cfg.AdminPassword); err != nil {
		log.Fatalf("seed: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	roleRepo := infraRepo.NewRoleGormRepository(gormDB)
	bookRepo := infraRepo.NewBookGormRepository(gormDB)
	authorRepo := infraRepo.NewAuthorGormRepository(gormDB)
	publisherRepo := infraRepo.NewPublisherGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)

	//usecaseに渡す部品
	tokenSvc, err := token.NewService(cfg)
	if err != nil {
		log.Fatalf("token: %v", err)
	}
	idGen := &uuidGenerator{}
	clock := &realClock{}
	hasher := usecase.NewBcryptPasswordHasher(12)
	verifier := usecase.NewBcryptPasswordVerifier()
	authValidator := validator.NewAuthValidator()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, tokenSvc, authValidator, hasher, verifier, idGen, clock)
	adminUC := usecase.NewUserAdminUsecase(userRepo, roleRepo)
	bookUC := usecase.NewBookUsecase(bookRepo, authorRepo, publisherRepo, categoryRepo)
	authorUC := usecase.NewAuthorUsecase(authorRepo)
	publisherUC := usecase.NewPublisherUsecase(publisherRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:      handler.NewAuthHandler(authUC, adminUC),
		Book:      handler.NewBookHandler(bookUC),
		Author:    handler.NewAuthorHandler(authorUC),
		Publisher: handler.NewPublisherHandler(publisherUC),
		Category:  handler.NewCategoryHandler(categoryUC),
	}

	//Server起動
	e := server.New(handlers, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

	addr := ":8080"
	if cfg.Port != "" {
		if cfg.Port[0] != ':' {
			addr = ":" + cfg.Port
		} else {
			addr = cfg.Port
		}
	}

	if err := server.Start(e, addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
