// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered account. Passwords are stored as bcrypt hashes
// and never serialized. Deleting a user hard-deletes their posts, comments,
// chat messages and follow edges through the declared foreign keys.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
