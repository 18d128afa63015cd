package allowlist

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// urlParts is the decomposed view the matchers operate on: lowercased
// scheme, registered hostname without port, and the raw (still
// percent-encoded) path. Query and fragment never participate in matching.
type urlParts struct {
	scheme  string
	host    string
	hasHost bool
	path    string
}

// splitURL decomposes a parsed URL. Hosts must already be ASCII; callers
// allowlist internationalized domains in IDNA (Punycode) form unless
// normalize is set, which converts Unicode hosts on the fly.
func splitURL(u *url.URL, normalize bool) (urlParts, error) {
	if u == nil {
		return urlParts{}, fmt.Errorf("nil url")
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		return urlParts{}, fmt.Errorf("missing scheme in %q", u.Redacted())
	}
	parts := urlParts{scheme: scheme, path: u.EscapedPath()}
	if scheme == "file" {
		// file URLs carry no host for matching purposes.
		return parts, nil
	}
	host := strings.ToLower(u.Hostname())
	if normalize && !isASCII(host) {
		converted, err := idna.ToASCII(host)
		if err != nil {
			return urlParts{}, fmt.Errorf("idna conversion of host %q: %w", host, err)
		}
		host = converted
	}
	if !isASCII(host) {
		return urlParts{}, fmt.Errorf("non-ascii host %q", host)
	}
	parts.host = host
	parts.hasHost = true
	return parts, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
