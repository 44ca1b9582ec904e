package model

import "time"

type Author struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName   string    `gorm:"type:varchar(40);not null" json:"first_name"`
	LastName    string    `gorm:"type:varchar(40);not null" json:"last_name"`
	Nationality string    `gorm:"type:varchar(20);not null" json:"nationality"`
	BirthDate   time.Time `gorm:"type:date;not null" json:"birth_date"`

	Books []Book `gorm:"foreignKey:AuthorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// 表示用のフルネーム
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}
