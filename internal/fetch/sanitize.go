package fetch

import (
	"net/url"
	"strings"

	"github.com/yourorg/stableyield-sentinel/internal/registry"
)

// SanitizeURL normalizes an upstream link into a safe absolute https URL.
// Empty, "#", or javascript-scheme input maps to the fixed safe default;
// scheme-relative input gets an https: prefix, bare hosts get https://.
// The result is percent-decoded, keeping the undecoded form if decoding fails.
func SanitizeURL(raw string) string {
	if raw == "" || raw == "#" || strings.Contains(raw, "javascript:") {
		return registry.SafeURL
	}

	clean := raw
	if strings.HasPrefix(raw, "//") {
		clean = "https:" + raw
	} else if !strings.HasPrefix(raw, "http") {
		clean = "https://" + raw
	}

	if decoded, err := url.PathUnescape(clean); err == nil {
		return decoded
	}
	return clean
}
