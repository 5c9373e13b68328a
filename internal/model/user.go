package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// UserID uniquely identifies a user on the remote API.
// Older API builds sent numeric ids, newer ones send UUID strings; both decode.
type UserID string

// UnmarshalJSON accepts either a JSON string or a JSON number
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*id = UserID(n.String())
	return nil
}

// Role values returned by the API
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// User is the user record as serialized by the API.
// Username and DisplayName are separate fields; DisplayName is editable.
type User struct {
	ID          UserID     `json:"id"`
	Username    string     `json:"username,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Email       string     `json:"email"`
	Age         int        `json:"age,omitempty"`
	Country     string     `json:"country,omitempty"`
	Language    string     `json:"language,omitempty"`
	Role        string     `json:"role,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsVerified  bool       `json:"is_verified"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Name returns the best label for greeting the user
func (u *User) Name() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// IsAdmin reports whether the server granted the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Account is a user as held by the reference backend, with credentials
type Account struct {
	User
	PasswordHash      string `json:"password_hash"`
	VerificationToken string `json:"verification_token,omitempty"`
}

// GameData is the game-access grant returned by GET /game
type GameData struct {
	Authorized bool   `json:"authorized"`
	PlayerID   UserID `json:"player_id"`
	Username   string `json:"username"`
}

// GameStats holds per-user game statistics
type GameStats struct {
	TotalGames      int `json:"total_games"`
	HighScore       int `json:"high_score"`
	TotalScore      int `json:"total_score"`
	LevelsCompleted int `json:"levels_completed"`
	ZombiesDefeated int `json:"zombies_defeated"`
}

// AverageScore returns total score over games played, 0 when nothing was played
func (s GameStats) AverageScore() int {
	if s.TotalGames <= 0 {
		return 0
	}
	return (s.TotalScore + s.TotalGames/2) / s.TotalGames
}
