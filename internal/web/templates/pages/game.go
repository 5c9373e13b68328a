package pages

import (
	"github.com/mcoot/bvzombies/internal/services/play"
	"github.com/mcoot/bvzombies/internal/web/templates/layout"
)

// GameData is the game screen
type GameData struct {
	layout.PageData
	View  play.View
	Scene any
}
