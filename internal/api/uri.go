// Copyright Redwood Labs, 2026. All rights reserved.

// Package api implements the wire layer for the remote conversion service:
// endpoint URL composition, the authenticated HTTP client, and the error
// taxonomy shared across packages.
package api

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseURL is the production conversion endpoint root.
const DefaultBaseURL = "https://v2.convertapi.com"

// formatPattern restricts format tags to alphanumerics, hyphen, and
// underscore. Anything else would change the endpoint path shape.
var formatPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// BuildURL composes the conversion endpoint {base}/convert/{from}/to/{to}
// with percent-encoded query parameters. The query string is omitted
// entirely when params is empty.
func BuildURL(base, from, to string, params url.Values) (string, error) {
	if !formatPattern.MatchString(from) {
		return "", Validationf("invalid source format %q: only letters, digits, hyphen, and underscore are allowed", from)
	}
	if !formatPattern.MatchString(to) {
		return "", Validationf("invalid target format %q: only letters, digits, hyphen, and underscore are allowed", to)
	}
	if base == "" {
		base = DefaultBaseURL
	}

	u := strings.TrimRight(base, "/") + "/convert/" + from + "/to/" + to
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u, nil
}
