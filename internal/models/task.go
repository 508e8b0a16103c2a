package models

import (
	"time"
)

type Task struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Text      string    `gorm:"column:task;type:varchar(200);not null" json:"task"`
	Done      bool      `gorm:"not null;default:false" json:"done"`
	OwnerID   uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}
