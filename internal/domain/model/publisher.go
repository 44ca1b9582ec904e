package model

import "time"

type Publisher struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
	Country     string `gorm:"type:varchar(15);not null" json:"country"`
	FoundedYear int    `gorm:"not null" json:"founded_year"`
	Website     string `gorm:"type:varchar(255)" json:"website,omitempty"`

	Books []Book `gorm:"foreignKey:PublisherID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
