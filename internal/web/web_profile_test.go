package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bvzombies/internal/services/profile"
)

func TestProfileRequiresSignIn(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/profile")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Zero(t, ts.api.Calls(), "no token means no request")
}

func TestProfileShowsUserAndStats(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()

	rr := ts.get("/profile")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsText(t, doc, "h1.profile-name", "rex")
	assertContainsText(t, doc, "dd#email", "rex@example.com")
	assertContainsText(t, doc, "dd#country", "Chile")
	assertContainsText(t, doc, "dd#role", "player")
	assertContainsText(t, doc, "#stats dd#total-games", "0")
	assertContainsText(t, doc, "#stats dd#average-score", "0")
	assertContainsElement(t, doc, "a#edit-link")
	assertNotContainsElement(t, doc, "form#edit-profile")
}

// A 401 from the API clears the token and sends the browser to sign in
func TestProfileExpiredSessionSignsOut(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()
	ts.api.Fail("GET /api/profile", http.StatusUnauthorized, "Token expirado")

	rr := ts.get("/profile")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	ts.api.Restore()
	calls := ts.api.Calls()
	doc := parseHTML(ts.get("/").Body)

	assertContainsElement(t, doc, "a#sign-in")
	assertNotContainsElement(t, doc, ".welcome")
	assert.Equal(t, calls, ts.api.Calls(), "token was cleared, so the nav bar makes no request")
}

func TestProfileFetchFailure(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()
	ts.api.Fail("GET /api/profile", http.StatusInternalServerError, "database down")

	rr := ts.get("/profile")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsText(t, doc, "#profile-error", profile.MsgFetchFailed)
	assertNotContainsElement(t, doc, "#profile")
}

func TestProfileEditDisplayName(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()

	doc := parseHTML(ts.get("/profile?edit=1").Body)
	assertContainsElement(t, doc, "form#edit-profile")
	assertNotContainsElement(t, doc, "a#edit-link")

	rr := ts.post("/profile", url.Values{"display_name": {"  Rex the Brave "}})
	require.Equal(t, http.StatusOK, rr.Code)
	doc = parseHTML(rr.Body)

	assertContainsText(t, doc, "#profile-success", profile.MsgUpdated)
	assertContainsText(t, doc, "h1.profile-name", "Rex the Brave")
	assertContainsText(t, doc, "dd#display-name", "Rex the Brave")
	assertNotContainsElement(t, doc, "form#edit-profile")
}

func TestProfileEditRejectsBlankName(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()
	calls := ts.api.Calls()

	doc := parseHTML(ts.post("/profile", url.Values{"display_name": {"   "}}).Body)

	assertContainsText(t, doc, "#profile-error", profile.MsgNameRequired)
	assertContainsElement(t, doc, "form#edit-profile")
	// The page and the nav bar each read the profile; nothing is written
	assert.Equal(t, calls+2, ts.api.Calls())
}

func TestProfileEditFailureKeepsForm(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn()
	ts.api.Fail("PUT /api/profile", http.StatusInternalServerError, "database down")

	doc := parseHTML(ts.post("/profile", url.Values{"display_name": {"Rex"}}).Body)

	assertContainsText(t, doc, "#profile-error", profile.MsgUpdateFailed)
	assertContainsElement(t, doc, "form#edit-profile")
}
