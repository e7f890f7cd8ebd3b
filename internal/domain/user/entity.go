package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is a customer or staff account.
type User struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Email       string         `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password    string         `json:"-" gorm:"not null;size:255"`
	FirstName   string         `json:"first_name" gorm:"size:100"`
	LastName    string         `json:"last_name" gorm:"size:100"`
	Phone       string         `json:"phone" gorm:"size:40"`
	Address     string         `json:"address" gorm:"type:text"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	IsStaff     bool           `json:"is_staff" gorm:"default:false"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// FullName returns the display name, falling back to the email local
// part when no name is set.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}
