package allowlist

import (
	"fmt"
	"strings"
)

// ParseErrorKind classifies why a pattern string was rejected.
type ParseErrorKind uint8

const (
	ErrEmpty ParseErrorKind = iota
	ErrUnknownScheme
	ErrBadHost
	ErrBadPath
)

func (k ParseErrorKind) String() string {
	switch k {
	case ErrEmpty:
		return "empty pattern"
	case ErrUnknownScheme:
		return "unknown scheme"
	case ErrBadHost:
		return "invalid host"
	case ErrBadPath:
		return "invalid path"
	}
	return "invalid pattern"
}

// ParseError reports a rejected pattern string.
type ParseError struct {
	Kind    ParseErrorKind
	Pattern string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pattern %q: %s", e.Pattern, e.Kind)
}

type schemeKind uint8

const (
	schemeExact   schemeKind = iota // stored literal, http or https
	schemeAnyHTTP                   // '*' scheme: http or https, nothing else
	schemeFile
	schemeUniversal // the bare "*" pattern, every scheme and host
)

type hostKind uint8

const (
	hostAny       hostKind = iota // any non-empty host
	hostExact                     // the stored domain only
	hostSubdomain                 // the stored domain and any host under it
	hostNone                      // file patterns carry no host
)

// Pattern is a compiled allowlist entry, immutable once parsed.
type Pattern struct {
	scheme  schemeKind
	literal string // scheme literal for schemeExact
	host    hostKind
	domain  string // lowercased host literal for hostExact and hostSubdomain
	glob    string // path glob, meaningful only when hasGlob is set
	hasGlob bool
}

// ParsePattern compiles a pattern string. The grammar is
//
//	pattern := "*" | scheme "://" host path? | "file://" path
//	scheme  := "*" | "http" | "https"
//	host    := "*" | "*." literal | literal   (literal admits no '*' or '/')
//	path    := "/" chars                      ('*' matches any run)
//
// A '*' in the scheme slot matches http and https only; the bare pattern
// "*" matches every URL. The host "*.example.com" matches example.com
// itself and every host under it. Scheme and host match case-insensitively,
// the path matches byte for byte.
func ParsePattern(raw string) (Pattern, error) {
	if raw == "" {
		return Pattern{}, &ParseError{Kind: ErrEmpty, Pattern: raw}
	}
	if raw == "*" {
		return Pattern{scheme: schemeUniversal, host: hostAny}, nil
	}
	schemePart, rest, found := strings.Cut(raw, "://")
	if !found {
		return Pattern{}, &ParseError{Kind: ErrUnknownScheme, Pattern: raw}
	}
	switch strings.ToLower(schemePart) {
	case "http", "https":
		p := Pattern{scheme: schemeExact, literal: strings.ToLower(schemePart)}
		return parseHostPath(p, rest, raw)
	case "*":
		return parseHostPath(Pattern{scheme: schemeAnyHTTP}, rest, raw)
	case "file":
		// file admits no host; everything after file:// is the path.
		if !strings.HasPrefix(rest, "/") {
			return Pattern{}, &ParseError{Kind: ErrBadPath, Pattern: raw}
		}
		return Pattern{scheme: schemeFile, host: hostNone, glob: rest, hasGlob: true}, nil
	default:
		return Pattern{}, &ParseError{Kind: ErrUnknownScheme, Pattern: raw}
	}
}

func parseHostPath(p Pattern, rest, raw string) (Pattern, error) {
	hostPart := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		hostPart = rest[:i]
		p.glob = rest[i:]
		p.hasGlob = true
	}
	if hostPart == "" {
		return Pattern{}, &ParseError{Kind: ErrBadHost, Pattern: raw}
	}
	hostPart = strings.ToLower(hostPart)
	switch {
	case hostPart == "*":
		p.host = hostAny
	case strings.HasPrefix(hostPart, "*."):
		domain := hostPart[2:]
		if domain == "" || strings.Contains(domain, "*") {
			return Pattern{}, &ParseError{Kind: ErrBadHost, Pattern: raw}
		}
		p.host = hostSubdomain
		p.domain = domain
	case strings.Contains(hostPart, "*"):
		return Pattern{}, &ParseError{Kind: ErrBadHost, Pattern: raw}
	default:
		p.host = hostExact
		p.domain = hostPart
	}
	return p, nil
}

// matches reports whether the decomposed URL satisfies all three
// sub-matchers.
func (p Pattern) matches(u urlParts) bool {
	if p.scheme == schemeUniversal {
		return true
	}
	return p.matchScheme(u.scheme) && p.matchHost(u) && p.matchPath(u.path)
}

func (p Pattern) matchScheme(scheme string) bool {
	switch p.scheme {
	case schemeExact:
		return scheme == p.literal
	case schemeAnyHTTP:
		return scheme == "http" || scheme == "https"
	case schemeFile:
		return scheme == "file"
	}
	return true
}

func (p Pattern) matchHost(u urlParts) bool {
	switch p.host {
	case hostAny:
		return u.hasHost && u.host != ""
	case hostExact:
		return u.hasHost && u.host == p.domain
	case hostSubdomain:
		if !u.hasHost {
			return false
		}
		return u.host == p.domain || strings.HasSuffix(u.host, "."+p.domain)
	case hostNone:
		return !u.hasHost
	}
	return false
}

func (p Pattern) matchPath(path string) bool {
	if !p.hasGlob {
		return true
	}
	// An empty URL path still satisfies the root globs.
	if path == "" && (p.glob == "/" || p.glob == "/*") {
		return true
	}
	return wildcardMatch(p.glob, path)
}
