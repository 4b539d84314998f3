package rendering

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// imagePolicy admits a single <img> with a src the print engine can load.
// Local device URIs (file, content, photo library) and bare paths are kept alongside
// web and data image URIs. Only script-capable schemes and unparseable values are dropped.
var imagePolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowAttrs("src", "class", "alt").OnElements("img")
	p.AllowURLSchemes("http", "https", "file", "content", "ph", "assets-library")
	p.AllowRelativeURLs(true)
	p.AllowDataURIImages()
	p.RequireParseableURLs(true)
	return p
}()

// ProfileImageTag builds the header <img> element for an opaque image URI.
// It returns an empty fragment when the URI is empty or its scheme is not allowed.
func ProfileImageTag(uri string) template.HTML {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return ""
	}

	raw := `<img src="` + html.EscapeString(uri) + `" class="profileImage" alt="profile">`
	clean := imagePolicy.Sanitize(raw)
	if !strings.Contains(clean, "src=") {
		return ""
	}
	//nolint:gosec // sanitized by imagePolicy
	return template.HTML(clean)
}
