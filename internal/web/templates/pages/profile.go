package pages

import (
	"github.com/mcoot/bvzombies/internal/services/profile"
	"github.com/mcoot/bvzombies/internal/web/templates/layout"
)

// ProfileData is the profile screen
type ProfileData struct {
	layout.PageData
	View profile.View
}
