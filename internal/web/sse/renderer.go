package sse

import (
	"bytes"
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/mcoot/bvzombies/internal/game"
)

// SceneStatusID is the element holding the current-scene badge
const SceneStatusID = "scene-status"

func sceneLabel(scene any) string {
	if s, ok := scene.(game.Scene); ok && s.Key != "" {
		return s.Key
	}
	return "Loading..."
}

// Render renders a component to a string
func Render(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WrapForOOBSwap marks a fragment as an out-of-band swap of the element id
func WrapForOOBSwap(id, fragment string) string {
	return fmt.Sprintf(`<div id="%s" hx-swap-oob="innerHTML">%s</div>`, id, fragment)
}
