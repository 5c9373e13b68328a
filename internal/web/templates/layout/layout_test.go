package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bvzombies/internal/services/nav"
)

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestPageRendersBodyInsideMain(t *testing.T) {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p id="content">hello</p>`)
		return err
	})

	doc := renderDoc(t, Page(PageData{Title: "Home"}, body))

	assert.Equal(t, "hello", doc.Find("main #content").Text())
	assert.Equal(t, "Home | Bootstrap vs Zombies", doc.Find("title").Text())
}

func TestBaseRendersChildrenAfterFlash(t *testing.T) {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section id="child"></section>`)
		return err
	})
	data := PageData{Title: "Profile", Flash: &FlashMessage{Type: "success", Message: "Saved"}}

	var buf bytes.Buffer
	require.NoError(t, Base(data).Render(templ.WithChildren(context.Background(), body), &buf))
	html := buf.String()

	flash := strings.Index(html, `data-type="success"`)
	child := strings.Index(html, `<section id="child">`)
	require.NotEqual(t, -1, flash)
	require.NotEqual(t, -1, child)
	assert.Less(t, flash, child)
}

func TestNavRendersPostLinksAsForms(t *testing.T) {
	v := nav.View{
		Authenticated: true,
		Welcome:       "Welcome, ada",
		Links:         []nav.Link{{Label: "Profile", Href: "/profile"}, {Label: "Logout", Href: "/logout", Post: true}},
	}

	doc := renderDoc(t, Nav(v))

	assert.Equal(t, "/profile", doc.Find("a.nav-link").AttrOr("href", ""))
	assert.Equal(t, "/logout", doc.Find("form").AttrOr("action", ""))
	assert.Equal(t, "Logout", doc.Find("form button").Text())
	assert.Equal(t, "Welcome, ada", doc.Find(".welcome").Text())
}

func TestServerErrorShowsReference(t *testing.T) {
	doc := renderDoc(t, ServerError("req-123"))
	assert.Equal(t, "req-123", doc.Find("#server-error code").Text())

	doc = renderDoc(t, ServerError(""))
	assert.Equal(t, 0, doc.Find("#server-error code").Length())
}
