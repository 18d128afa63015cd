package allowlist

import (
	"net/url"
	"testing"
)

func TestSplitURL(t *testing.T) {
	tests := []struct {
		rawURL     string
		wantScheme string
		wantHost   string
		wantNoHost bool
		wantPath   string
	}{
		{"https://example.com/foo", "https", "example.com", false, "/foo"},
		{"HTTPS://EXAMPLE.COM/Foo", "https", "example.com", false, "/Foo"},
		{"https://example.com:8443/foo", "https", "example.com", false, "/foo"},
		{"https://example.com", "https", "example.com", false, ""},
		{"https://example.com/foo?q=1#frag", "https", "example.com", false, "/foo"},
		{"https://example.com/a%2Fb", "https", "example.com", false, "/a%2Fb"},
		{"file:///var/log/app.log", "file", "", true, "/var/log/app.log"},
	}

	for _, tc := range tests {
		t.Run(tc.rawURL, func(t *testing.T) {
			u, err := url.Parse(tc.rawURL)
			if err != nil {
				t.Fatalf("url.Parse: %v", err)
			}
			parts, err := splitURL(u, false)
			if err != nil {
				t.Fatalf("splitURL returned error: %v", err)
			}
			if parts.scheme != tc.wantScheme {
				t.Errorf("scheme = %q, want %q", parts.scheme, tc.wantScheme)
			}
			if parts.host != tc.wantHost {
				t.Errorf("host = %q, want %q", parts.host, tc.wantHost)
			}
			if parts.hasHost == tc.wantNoHost {
				t.Errorf("hasHost = %v, want %v", parts.hasHost, !tc.wantNoHost)
			}
			if parts.path != tc.wantPath {
				t.Errorf("path = %q, want %q", parts.path, tc.wantPath)
			}
		})
	}
}

func TestSplitURLRejects(t *testing.T) {
	rejected := []string{
		"no-scheme-at-all",
		"//relative.example.com/x",
		"https://bücher.de/shop",
	}
	for _, rawURL := range rejected {
		u, err := url.Parse(rawURL)
		if err != nil {
			t.Fatalf("url.Parse(%q): %v", rawURL, err)
		}
		if _, err := splitURL(u, false); err == nil {
			t.Errorf("splitURL(%q) should return error", rawURL)
		}
	}

	if _, err := splitURL(nil, false); err == nil {
		t.Error("splitURL(nil) should return error")
	}
}

func TestSplitURLNormalizesIDNA(t *testing.T) {
	u, err := url.Parse("https://shop.bücher.example/x")
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	parts, err := splitURL(u, true)
	if err != nil {
		t.Fatalf("splitURL returned error: %v", err)
	}
	if parts.host != "shop.xn--bcher-kva.example" {
		t.Errorf("host = %q, want punycode form", parts.host)
	}
}
