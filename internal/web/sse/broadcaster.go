package sse

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event names streamed to game pages
const (
	EventScene     = "scene"
	EventSignedOut = "signed-out"
)

// Broadcaster pushes game page updates to a browser's open streams
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// BroadcastScene sends the scene badge, swapped in place, and the raw scene
func (b *Broadcaster) BroadcastScene(ctx context.Context, sid string, scene any) {
	hub := b.hubManager.GetHub(sid)
	if hub == nil {
		return
	}

	fragment, err := Render(ctx, SceneStatus(scene))
	if err != nil {
		b.logger.Error("sse failed to render scene status",
			slog.String("sid", sid),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(EventScene, WrapForOOBSwap(SceneStatusID, fragment))

	if raw, err := json.Marshal(scene); err == nil {
		hub.BroadcastEvent(EventScene+"-data", string(raw))
	}
}

// BroadcastSignedOut tells every open page of the session to leave the game
func (b *Broadcaster) BroadcastSignedOut(sid string) {
	hub := b.hubManager.GetHub(sid)
	if hub == nil {
		return
	}
	hub.BroadcastEvent(EventSignedOut, "signed-out")
}
