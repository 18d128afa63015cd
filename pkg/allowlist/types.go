package allowlist

// Scope selects which classes of URL consumption a pattern or query
// applies to.
type Scope uint8

const (
	// ScopeJavaScriptInterface applies to the JavaScript native bridge
	// exposed to web views.
	ScopeJavaScriptInterface Scope = 1 << iota

	// ScopeOpenURL applies to loading or opening of URLs.
	ScopeOpenURL
)

// ScopeAll covers both the JavaScript interface and URL opening. It is the
// implied scope when none is given.
const ScopeAll = ScopeJavaScriptInterface | ScopeOpenURL

// normalize clamps a scope to the known bits and maps the empty scope to
// ScopeAll.
func (s Scope) normalize() Scope {
	s &= ScopeAll
	if s == 0 {
		return ScopeAll
	}
	return s
}

// Config defines the allowlist configuration entry of an embedding
// application.
type Config struct {
	InitialPatterns     []string `mapstructure:"initial_patterns"`
	JSInterfacePatterns []string `mapstructure:"url_allow_list_scope_js_interface"`
	OpenURLPatterns     []string `mapstructure:"url_allow_list_scope_open_url"`
	DisableVendorAllow  bool     `mapstructure:"disable_default_vendor_allow"`
	VendorDomain        string   `mapstructure:"vendor_domain"`
	PatternsFile        string   `mapstructure:"patterns_file"`
	RejectedLog         string   `mapstructure:"rejected_log"`
	NormalizeIDNA       bool     `mapstructure:"normalize_idna"`
	ParseErrorLimit     int      `mapstructure:"parse_error_limit"`
}

// LoadStats summarises pattern file loading results.
type LoadStats struct {
	TotalLines int
	Patterns   int
	Invalid    int
}
