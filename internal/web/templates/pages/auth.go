// Package pages renders the screens of the site.
package pages

import (
	"fmt"
	"strconv"

	"github.com/mcoot/bvzombies/internal/services/login"
	"github.com/mcoot/bvzombies/internal/web/templates/layout"
)

// LoginData is the login/register screen
type LoginData struct {
	layout.PageData
	View login.View
}

// refreshContent is the meta refresh value for a pending redirect
func refreshContent(v login.View) string {
	return fmt.Sprintf("%s;url=%s", strconv.FormatFloat(v.RedirectAfter.Seconds(), 'f', -1, 64), v.Redirect)
}

func passwordType(v login.View) string {
	if v.ShowPassword {
		return "text"
	}
	return "password"
}
