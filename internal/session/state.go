// Package session holds the per-browser auth and profile state and the pure
// reducer that transitions it.
package session

import (
	"time"

	"github.com/mcoot/bvzombies/internal/model"
)

// Auth is the authentication half of the session state.
// Empty strings and nil pointers stand for "no value".
type Auth struct {
	Email              string     `json:"email"`
	Password           string     `json:"-"`
	ShowPassword       bool       `json:"showPassword"`
	IsLoading          bool       `json:"isLoading"`
	IsLoggedIn         bool       `json:"isLoggedIn"`
	Error              string     `json:"error,omitempty"`
	Token              string     `json:"token,omitempty"`
	LoginAttempts      int        `json:"loginAttempts"`
	IsBlocked          bool       `json:"isBlocked"`
	BlockExpiresAt     *time.Time `json:"blockExpiresAt,omitempty"`
	SessionExpiresAt   *time.Time `json:"sessionExpiresAt,omitempty"`
	RedirectToRegister bool       `json:"redirectToRegister"`
	PrefillEmail       string     `json:"prefillEmail"`
}

// Profile is the display half of the session state
type Profile struct {
	UserID        model.UserID `json:"userId,omitempty"`
	Username      string       `json:"username"`
	Email         string       `json:"email"`
	Score         int          `json:"score"`
	TotalPlayTime int          `json:"totalPlayTime"`
	IsOnline      bool         `json:"isOnline"`
	DisplayName   string       `json:"displayName,omitempty"`
	Age           int          `json:"age,omitempty"`
	Country       string       `json:"country,omitempty"`
	Role          string       `json:"role,omitempty"`
	CreatedAt     *time.Time   `json:"createdAt,omitempty"`
}

// State is everything the store keeps for one browser
type State struct {
	Auth    Auth    `json:"auth"`
	Profile Profile `json:"profile"`
}

// Initial returns a fresh state
func Initial() State {
	return State{}
}

// ProfilePatch is a partial profile. Nil fields are left untouched on merge.
type ProfilePatch struct {
	UserID        *model.UserID
	Username      *string
	Email         *string
	Score         *int
	TotalPlayTime *int
	IsOnline      *bool
	DisplayName   *string
	Age           *int
	Country       *string
	Role          *string
	CreatedAt     *time.Time
}

// PatchFromUser builds a patch carrying every field the API reports for a user
func PatchFromUser(u *model.User) ProfilePatch {
	if u == nil {
		return ProfilePatch{}
	}
	return ProfilePatch{
		UserID:      &u.ID,
		Username:    &u.Username,
		Email:       &u.Email,
		DisplayName: &u.DisplayName,
		Age:         &u.Age,
		Country:     &u.Country,
		Role:        &u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

func (p Profile) merge(patch ProfilePatch) Profile {
	if patch.UserID != nil {
		p.UserID = *patch.UserID
	}
	if patch.Username != nil {
		p.Username = *patch.Username
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Score != nil {
		p.Score = *patch.Score
	}
	if patch.TotalPlayTime != nil {
		p.TotalPlayTime = *patch.TotalPlayTime
	}
	if patch.IsOnline != nil {
		p.IsOnline = *patch.IsOnline
	}
	if patch.DisplayName != nil {
		p.DisplayName = *patch.DisplayName
	}
	if patch.Age != nil {
		p.Age = *patch.Age
	}
	if patch.Country != nil {
		p.Country = *patch.Country
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	if patch.CreatedAt != nil {
		t := *patch.CreatedAt
		p.CreatedAt = &t
	}
	return p
}
