// Package device detects the client platform from the User-Agent header so
// audit records can say which surface a checkout came from.
package device

import (
	"net/http"

	ua "github.com/mssola/useragent"

	"spendgate/pkg/requestcontext"
)

// Detect parses the User-Agent header and stores a short device name
// ("Android", "iPhone", "Chrome", ...) in the request context.
// Parsing failures degrade to an empty name rather than rejecting the request.
func Detect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := DeviceNameFromUserAgent(r.Header.Get("User-Agent"))
		ctx := requestcontext.WithDeviceName(r.Context(), name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DeviceNameFromUserAgent reduces a raw User-Agent string to a short name.
func DeviceNameFromUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	parsed := ua.New(raw)
	if parsed.Mobile() {
		if platform := parsed.Platform(); platform != "" {
			return platform
		}
		return "mobile"
	}
	if browser, _ := parsed.Browser(); browser != "" {
		return browser
	}
	if parsed.Bot() {
		return "bot"
	}
	return parsed.OS()
}
