package models

import "time"

// User is the account record. Email is immutable after creation; the
// password is only ever stored as a bcrypt hash. A user is created inactive
// with an activation token and the two flip together on activation.
type User struct {
	ID                 uint   `gorm:"primaryKey"`
	Username           string `gorm:"not null"`
	Email              string `gorm:"uniqueIndex;not null"`
	PasswordHash       string `gorm:"not null"`
	Inactive           bool   `gorm:"not null"`
	ActivationToken    string
	PasswordResetToken string
	Image              string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Tokens []Token `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Token is an opaque session credential. The random string itself is the
// primary key; there is nothing to parse in it. LastUsedAt moves forward on
// every successful verification, giving the session a sliding expiry.
type Token struct {
	Token      string    `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index"`
	LastUsedAt time.Time `gorm:"not null;index"`
}
