package models

import (
	"regexp"
	"time"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// UsernameRX limits usernames to word characters plus . @ + - _
var UsernameRX = regexp.MustCompile(`^[\w.@+\-_]+$`)

// ReservedUsername is taken by the "current user" endpoint and can never
// be registered.
const ReservedUsername = "me"

type User struct {
	ID          uint      `json:"-" gorm:"primarykey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email       string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	FirstName   string    `json:"first_name" gorm:"size:150"`
	LastName    string    `json:"last_name" gorm:"size:150"`
	Bio         string    `json:"bio" gorm:"type:text"`
	Role        UserRole  `json:"role" gorm:"size:9;default:'user'"`
	IsSuperuser bool      `json:"-" gorm:"default:false"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r UserRole) bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}
