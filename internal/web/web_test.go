package web_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bvzombies/internal/factory"
	"github.com/mcoot/bvzombies/internal/testutil/apitest"
	"github.com/mcoot/bvzombies/internal/web"
	"github.com/mcoot/bvzombies/internal/web/middleware"
)

const (
	eventuallyTimeout = 2 * time.Second
	eventuallyTick    = 10 * time.Millisecond
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	api     *apitest.Server
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
// against an in-process game API
func newWebTestServer(t *testing.T, opts ...func(*web.RouterConfig)) *webTestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := apitest.New(t)
	app := factory.NewTestApp(api.BaseURL())

	cfg := web.RouterConfig{
		Logger:      logger,
		Client:      app.Client,
		Browsers:    app.Browsers,
		Login:       app.Login,
		Profile:     app.Profile,
		Nav:         app.Nav,
		Play:        app.Play,
		HubManager:  app.HubManager,
		Broadcaster: app.Broadcaster,
		Metrics:     app.Metrics,
		StaticDir:   "", // No static files in tests
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &webTestServer{
		t:       t,
		handler: web.NewRouter(cfg),
		api:     api,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, false)
}

// post makes a POST request with form data (non-HTMX)
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, false)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// sid returns the browser session id, empty before the first request
func (j *cookieJar) sid() string {
	if c, ok := j.cookies[middleware.SessionCookieName]; ok {
		return c.Value
	}
	return ""
}

// Helper functions for common test operations

func rexForm(mode string) url.Values {
	rex := apitest.Rex()
	return url.Values{
		"mode":            {mode},
		"email":           {rex.Email},
		"password":        {rex.Password},
		"verify_password": {rex.VerifyPassword},
		"username":        {rex.Username},
		"age":             {rex.Age},
		"country":         {rex.Country},
	}
}

// signIn registers rex directly on the API and signs in through the login form
func (ts *webTestServer) signIn() {
	ts.t.Helper()
	ts.api.Register(ts.t, apitest.Rex())
	ts.signInAs("rex@example.com", "zombies1")
}

func (ts *webTestServer) signInAs(email, password string) {
	ts.t.Helper()
	rr := ts.post("/login", url.Values{"mode": {"login"}, "email": {email}, "password": {password}})
	require.Equal(ts.t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	require.Equal(ts.t, 1, doc.Find("#auth-success").Length(), "Expected login to succeed")
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
