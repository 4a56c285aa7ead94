// File: /models/user.go
package models

import (
	"foodshare-api/lifecycle"
	"time"
)

// User is the identity carried by a verified access token. Accounts live
// with the identity provider; this service keeps no user table.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// DisplayName is the name recorded on posts, claims and ratings
func (u User) DisplayName() string {
	return lifecycle.DisplayName(u.FullName, u.Email)
}

func (u User) Actor() lifecycle.Actor {
	if u.ID == "" {
		return lifecycle.Actor{}
	}
	return lifecycle.Actor{ID: u.ID, DisplayName: u.DisplayName()}
}

// Profile is the last known identity of a user, saved when they act so that
// notification emails and profile pages have a name and address to use.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Email     string    `json:"-" gorm:"size:255"`
	FullName  string    `json:"full_name" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, FullName: u.DisplayName()}
}
