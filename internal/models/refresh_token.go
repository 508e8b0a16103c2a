package models

import (
	"time"
)

// RefreshToken records the server-side state of an issued refresh token.
// Rotation marks the row revoked; a revoked or expired row is never
// accepted again regardless of what the token itself claims.
type RefreshToken struct {
	ID        uint64     `gorm:"primarykey"`
	JTI       string     `gorm:"type:varchar(36);uniqueIndex;not null"`
	UserID    uint64     `gorm:"not null;index"`
	ExpiresAt time.Time  `gorm:"not null"`
	RevokedAt *time.Time `gorm:"index"`
	CreatedAt time.Time

	// Relations
	User User `gorm:"foreignKey:UserID"`
}
