// Package layout holds the page shell shared by every screen.
package layout

import "github.com/mcoot/bvzombies/internal/services/nav"

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string
	Message string
}

// PageData is what every page passes to the shell
type PageData struct {
	Title string
	Flash *FlashMessage
	Nav   nav.View
}
