package model

type Role struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(40);uniqueIndex;not null" json:"name"`
}

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)
