package helpers

import (
	"net/url"
	"strings"
)

// DeepLink joins a booking page URL with a slot's URL suffix. Suffixes that
// are query fragments ("&id_form=44&...") are appended to the page URL,
// anything else is resolved against it.
func DeepLink(pageURL, suffix string) string {
	if suffix == "" {
		return pageURL
	}
	if strings.HasPrefix(suffix, "&") || strings.HasPrefix(suffix, "?") {
		return pageURL + suffix
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return pageURL + suffix
	}
	ref, err := url.Parse(suffix)
	if err != nil {
		return pageURL + suffix
	}
	return base.ResolveReference(ref).String()
}
