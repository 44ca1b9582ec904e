package db

import (
	"app/internal/domain/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seedは初期データを投入する。
// 既定ロール（ADMIN/USER）は常に揃える。adminPasswordが空なら管理者は作らない
func Seed(gormDB *gorm.DB, adminPassword string) error {
	roles := []model.Role{
		{Name: model.RoleAdmin},
		{Name: model.RoleUser},
	}

	// 既にあればそのまま
	if err := gormDB.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
		return err
	}

	if adminPassword == "" {
		return nil
	}

	var count int64
	if err := gormDB.Model(&model.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var adminRole model.Role
	if err := gormDB.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	admin := model.User{
		ID:           uuid.NewString(),
		Username:     "admin",
		Email:        "admin@localhost",
		PasswordHash: string(hash),
		Roles:        []model.Role{adminRole},
	}

	return gormDB.Create(&admin).Error
}
