package layout

import (
	"net/http"
	"strconv"
)

// ViewportCookie is set by a small script on every page so the server can
// compute geometry for the next render. Absence means a large screen.
const ViewportCookie = "viewport_width"

// WidthFromRequest reads the reported viewport width, if any.
func WidthFromRequest(r *http.Request) int {
	cookie, err := r.Cookie(ViewportCookie)
	if err != nil {
		return DefaultWidth
	}
	width, err := strconv.Atoi(cookie.Value)
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}
