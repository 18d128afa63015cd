// Package allowlist verifies webview and navigation URLs against compiled
// URL patterns.
package allowlist

import (
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"

	"golang.org/x/net/idna"
)

// DefaultVendorDomain is seeded into every allowlist for all scopes unless
// configuration disables it.
const DefaultVendorDomain = "urlguard.io"

type entry struct {
	pat   Pattern
	scope Scope
}

// Allowlist answers URL membership queries against an append-only set of
// compiled patterns. Queries run against an immutable snapshot, so
// concurrent readers never contend; writers copy and swap.
type Allowlist struct {
	log           *slog.Logger
	normalizeIDNA bool
	rejected      *rejectedLogger

	mu            sync.Mutex   // serializes writers
	entries       atomic.Value // []entry
	openURLChecks atomic.Bool
}

// Options configures an Allowlist.
type Options struct {
	Log             *slog.Logger
	NormalizeIDNA   bool
	RejectedLogPath string
}

// New constructs an empty Allowlist with open-URL checks enabled.
func New(opts Options) *Allowlist {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	a := &Allowlist{
		log:           log,
		normalizeIDNA: opts.NormalizeIDNA,
		rejected:      newRejectedLogger(opts.RejectedLogPath, log),
	}
	a.entries.Store([]entry(nil))
	a.openURLChecks.Store(true)
	return a
}

// NewFromConfig builds an Allowlist from configuration. The vendor domain
// seed covers http and https for the domain and all its subdomains and is
// registered unless disabled. Invalid configured patterns are skipped and
// logged; they never prevent construction.
func NewFromConfig(cfg Config, log *slog.Logger) *Allowlist {
	a := New(Options{
		Log:             log,
		NormalizeIDNA:   cfg.NormalizeIDNA,
		RejectedLogPath: cfg.RejectedLog,
	})
	if !cfg.DisableVendorAllow {
		domain := cfg.VendorDomain
		if domain == "" {
			domain = DefaultVendorDomain
		}
		a.Add("*://*." + domain)
	}
	if cfg.PatternsFile != "" {
		if err := a.LoadPatterns(cfg.PatternsFile, cfg.ParseErrorLimit); err != nil {
			a.log.Error("failed to load allowlist patterns file", "path", cfg.PatternsFile, "error", err)
		}
	}
	for _, raw := range cfg.InitialPatterns {
		a.Add(raw)
	}
	for _, raw := range cfg.JSInterfacePatterns {
		a.AddScoped(raw, ScopeJavaScriptInterface)
	}
	for _, raw := range cfg.OpenURLPatterns {
		a.AddScoped(raw, ScopeOpenURL)
	}
	return a
}

// Add registers a pattern for every scope. It reports whether the pattern
// was accepted; a rejected pattern leaves the allowlist untouched.
func (a *Allowlist) Add(pattern string) bool {
	return a.AddScoped(pattern, ScopeAll)
}

// AddScoped registers a pattern for the given scopes. A zero scope means
// ScopeAll.
func (a *Allowlist) AddScoped(pattern string, scope Scope) bool {
	e, err := a.compile(pattern, scope)
	if err != nil {
		a.log.Warn("rejected allowlist pattern", "pattern", pattern, "error", err)
		a.rejected.Log(pattern, err)
		return false
	}
	a.append(e)
	return true
}

func (a *Allowlist) compile(pattern string, scope Scope) (entry, error) {
	pat, err := ParsePattern(pattern)
	if err != nil {
		return entry{}, err
	}
	// Without opt-in IDNA normalization a non-ASCII host literal is still a
	// valid pattern; it just never matches, because decomposition rejects
	// non-ASCII URL hosts.
	if a.normalizeIDNA && !isASCII(pat.domain) {
		converted, err := idna.ToASCII(pat.domain)
		if err != nil {
			return entry{}, &ParseError{Kind: ErrBadHost, Pattern: pattern}
		}
		pat.domain = converted
	}
	return entry{pat: pat, scope: scope.normalize()}, nil
}

func (a *Allowlist) append(e entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur := a.snapshot()
	next := make([]entry, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, e)
	a.entries.Store(next)
}

func (a *Allowlist) snapshot() []entry {
	if value := a.entries.Load(); value != nil {
		if entries, ok := value.([]entry); ok {
			return entries
		}
	}
	return nil
}

// SetOpenURLChecksEnabled toggles allowlist checks for ScopeOpenURL. While
// disabled, queries for exactly that scope pass without consulting
// patterns. ScopeJavaScriptInterface queries are never bypassed.
func (a *Allowlist) SetOpenURLChecksEnabled(enabled bool) {
	a.openURLChecks.Store(enabled)
}

// OpenURLChecksEnabled reports whether open-URL checks are active.
func (a *Allowlist) OpenURLChecksEnabled() bool {
	return a.openURLChecks.Load()
}

// IsAllowed reports whether rawURL is allowlisted for every requested
// scope. A zero scope means ScopeAll. Anything that fails URL parsing is
// not allowlisted.
func (a *Allowlist) IsAllowed(rawURL string, scope Scope) bool {
	scope = scope.normalize()
	if a.bypass(scope) {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return a.allowed(u, scope)
}

// IsAllowedURL is IsAllowed for an already parsed URL.
func (a *Allowlist) IsAllowedURL(u *url.URL, scope Scope) bool {
	scope = scope.normalize()
	if a.bypass(scope) {
		return true
	}
	return a.allowed(u, scope)
}

// bypass applies the open-URL kill switch. It fires only when the request
// is for exactly ScopeOpenURL; an all-scope query still has to satisfy the
// JavaScript interface scope through patterns.
func (a *Allowlist) bypass(scope Scope) bool {
	return scope == ScopeOpenURL && !a.OpenURLChecksEnabled()
}

func (a *Allowlist) allowed(u *url.URL, scope Scope) bool {
	parts, err := splitURL(u, a.normalizeIDNA)
	if err != nil {
		return false
	}
	// Every requested scope bit must be covered by some matching pattern,
	// though not necessarily the same one.
	remaining := scope
	for _, e := range a.snapshot() {
		if e.scope&remaining == 0 {
			continue
		}
		if e.pat.matches(parts) {
			remaining &^= e.scope
			if remaining == 0 {
				return true
			}
		}
	}
	return false
}
