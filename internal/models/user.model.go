package models

import (
	"strings"
	"time"
)

type User struct {
	BaseUUIDModel
	FirstName   string  `gorm:"type:text"               json:"firstName"`
	LastName    string  `gorm:"type:text"               json:"lastName"`
	DisplayName string  `gorm:"type:text"               json:"displayName"`
	Email       *string `gorm:"type:text;uniqueIndex"   json:"email"`
	AvatarURL   *string `gorm:"type:text"               json:"avatarUrl,omitempty"`
	IsAdmin     bool    `gorm:"type:bool;default:false" json:"isAdmin"`
	IsActive    bool    `gorm:"type:bool;default:true"  json:"isActive"`

	// External identity provider linkage
	SubjectID   string     `gorm:"column:subject_id;type:text;uniqueIndex" json:"-"`
	Provider    *string    `gorm:"type:text"                               json:"provider,omitempty"`
	LastLoginAt *time.Time `gorm:"type:timestamp"                          json:"lastLoginAt,omitempty"`

	Settings *UserSettings `gorm:"foreignKey:UserID" json:"settings,omitempty"`
}

// UserProfile is the public projection of a user attached to experiences
// and fix records.
type UserProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
	IsActive    bool    `json:"isActive"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
	}
}

// UpdateFromIdentity refreshes the local mirror of the identity provider's
// profile on login. Empty claim values never clobber existing data.
func (u *User) UpdateFromIdentity(subjectID string, email, name *string, firstName, lastName, provider string) {
	now := time.Now()
	u.LastLoginAt = &now

	if subjectID != "" {
		u.SubjectID = subjectID
	}

	if email != nil && *email != "" {
		u.Email = email
	}

	if firstName != "" {
		u.FirstName = firstName
	}
	if lastName != "" {
		u.LastName = lastName
	}

	if name != nil && *name != "" {
		u.DisplayName = *name
	} else if fullName := strings.TrimSpace(u.FirstName + " " + u.LastName); fullName != "" {
		u.DisplayName = fullName
	}

	if provider != "" {
		u.Provider = &provider
	}
}
