package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bvzombies/internal/game"
	"github.com/mcoot/bvzombies/internal/services/play"
)

func TestGameRequiresSignIn(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/game")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash", "Please sign in to play.")
}

func TestGamePageMountsEngine(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()

	rr := ts.get("/game")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsElement(t, doc, "div#"+game.ContainerID)
	assertContainsText(t, doc, "span#scene-status", "Loading...")
	assertContainsElement(t, doc, `section#game-page[sse-connect="/game/events"]`)

	var boot game.UserReady
	require.NoError(t, json.Unmarshal([]byte(doc.Find("script#boot-payload").Text()), &boot))
	require.NotNil(t, boot.Profile)
	assert.Equal(t, "rex", boot.Profile.Username)
	require.NotNil(t, boot.GameData)
	assert.True(t, boot.GameData.Authorized)

	assert.Equal(t, 1, ts.app.Mounts.Refs(ts.cookies.sid()))
}

func TestGameReentryReusesEngine(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()

	ts.get("/game")
	mount, ok := ts.app.Mounts.Get(ts.cookies.sid())
	require.True(t, ok)
	first := mount.Handle().Engine().ID()

	ts.get("/game")
	mount, _ = ts.app.Mounts.Get(ts.cookies.sid())
	assert.Equal(t, first, mount.Handle().Engine().ID())
	assert.Equal(t, 2, ts.app.Mounts.Refs(ts.cookies.sid()))
}

func TestGameAccessDenied(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()
	ts.api.Fail("GET /api/game", http.StatusForbidden, "Acceso denegado")

	rr := ts.get("/game")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsText(t, doc, "#game-error", play.MsgAccessFailed)
	assertNotContainsElement(t, doc, "div#"+game.ContainerID)
	assert.Zero(t, ts.app.Mounts.Refs(ts.cookies.sid()))
}

func TestGameSceneReport(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()
	ts.get("/game")

	rr := ts.post("/game/scene", url.Values{"scene": {"MainMenu"}})
	require.Equal(t, http.StatusNoContent, rr.Code)

	assert.Eventually(t, func() bool {
		scene, ok := ts.app.Play.Scene(ts.cookies.sid()).(game.Scene)
		return ok && scene.Key == "MainMenu"
	}, eventuallyTimeout, eventuallyTick)

	doc := parseHTML(ts.get("/game").Body)
	assertContainsText(t, doc, "span#scene-status", "MainMenu")
}

func TestGameSceneReportJSON(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()
	ts.get("/game")

	req := httptest.NewRequest(http.MethodPost, "/game/scene", strings.NewReader(`{"scene":"Level1"}`))
	req.Header.Set("Content-Type", "application/json")
	ts.cookies.addTo(req)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Eventually(t, func() bool {
		scene, ok := ts.app.Play.Scene(ts.cookies.sid()).(game.Scene)
		return ok && scene.Key == "Level1"
	}, eventuallyTimeout, eventuallyTick)
}

func TestGameSceneReportErrors(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()

	rr := ts.post("/game/scene", url.Values{"scene": {"MainMenu"}})
	assert.Equal(t, http.StatusConflict, rr.Code, "nothing mounted yet")

	ts.get("/game")
	rr = ts.post("/game/scene", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGameLeaveReleasesEngine(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()
	ts.get("/game")

	rr := ts.post("/game/leave", nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, ts.app.Mounts.Refs(ts.cookies.sid()))
	_, ok := ts.app.Mounts.Get(ts.cookies.sid())
	assert.False(t, ok)
}

func TestLogoutClosesGame(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()
	ts.get("/game")
	ts.get("/game")

	ts.post("/logout", nil)

	assert.Zero(t, ts.app.Mounts.Refs(ts.cookies.sid()))
}
