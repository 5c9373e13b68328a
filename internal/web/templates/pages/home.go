package pages

import (
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/web/templates/layout"
)

// HomeData is the landing page
type HomeData struct {
	layout.PageData
}

// LeaderboardData is the public leaderboard
type LeaderboardData struct {
	layout.PageData
	Items []map[string]any
	Error string
}

// Check is one row of the backend test page
type Check struct {
	Name   string
	URL    string
	OK     bool
	Detail string
}

func (c Check) statusClass() string {
	if c.OK {
		return "check-ok"
	}
	return "check-fail"
}

// BackendTestData is the admin backend test page
type BackendTestData struct {
	layout.PageData
	User   *model.User
	Checks []Check
}
