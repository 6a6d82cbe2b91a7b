// Package token issues tracking tokens and builds the pixel URLs and HTML
// snippets that embed them in outbound email bodies.
//
// Token generation is pure: persisting the TrackedEmail row that binds a
// token to recipient metadata is the caller's job, and must complete before
// the email is sent.
package token

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// QueryParam is the query parameter carrying the token on pixel requests.
// The name is historical; the value is opaque.
const QueryParam = "text"

// New returns a fresh tracking token. UUIDv4 gives collision-free tokens
// without the clock-resolution window of timestamp tokens; the recorder
// treats tokens as opaque strings either way.
func New() string {
	return uuid.New().String()
}

// PixelURL builds the image URL for a token against the service base URL.
func PixelURL(baseURL, token string) string {
	return fmt.Sprintf("%s/track?%s=%s", strings.TrimRight(baseURL, "/"), QueryParam, url.QueryEscape(token))
}

// ImgTag builds the hidden 1x1 image tag to paste into an email body.
func ImgTag(baseURL, token string) string {
	return fmt.Sprintf(`<img src="%s" width="1" height="1" style="display:none" alt="" />`, PixelURL(baseURL, token))
}

// InjectPixel inserts the tracking image into an HTML email body, before
// </body> when present, appended otherwise.
func InjectPixel(html, baseURL, token string) string {
	tag := ImgTag(baseURL, token)
	if strings.Contains(html, "</body>") {
		return strings.Replace(html, "</body>", tag+"</body>", 1)
	}
	return html + tag
}
