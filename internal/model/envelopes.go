package model

// Request and response bodies exchanged with the API

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	VerifyPassword string `json:"verify_password"`
	Age            string `json:"age"`
	Country        string `json:"country"`
	Language       string `json:"language,omitempty"`
}

// UpdateProfileRequest is the body of PUT /profile
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

// ErrorEnvelope is the error body of every API failure
type ErrorEnvelope struct {
	Msg string `json:"msg"`
}

// AuthEnvelope is returned by /login and /register
type AuthEnvelope struct {
	Msg   string `json:"msg,omitempty"`
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// UserEnvelope is returned by /profile
type UserEnvelope struct {
	Msg  string `json:"msg,omitempty"`
	User *User  `json:"user"`
}

// GameEnvelope is returned by /game
type GameEnvelope struct {
	Msg      string    `json:"msg,omitempty"`
	User     *User     `json:"user,omitempty"`
	GameData *GameData `json:"game_data"`
}

// StatsEnvelope is returned by /stats/{id}
type StatsEnvelope struct {
	Msg   string    `json:"msg,omitempty"`
	Stats GameStats `json:"stats"`
}

// ListEnvelope is returned by the leaderboard, game-stats and scores listings
type ListEnvelope struct {
	Msg   string           `json:"msg,omitempty"`
	Items []map[string]any `json:"items"`
}
