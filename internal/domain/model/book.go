package model

import "time"

type Book struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string `gorm:"type:varchar(150);not null" json:"title"`
	PublicationYear int    `gorm:"not null" json:"publication_year"`

	AuthorID int64   `gorm:"not null;index" json:"author_id"`
	Author   *Author `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	PublisherID int64      `gorm:"not null;index" json:"publisher_id"`
	Publisher   *Publisher `gorm:"foreignKey:PublisherID" json:"publisher,omitempty"`

	Categories []Category `gorm:"many2many:book_categories" json:"categories,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
