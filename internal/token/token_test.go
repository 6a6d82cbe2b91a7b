package token

import (
	"strings"
	"testing"
)

func TestNewUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		tok := New()
		if tok == "" {
			t.Fatal("empty token")
		}
		if seen[tok] {
			t.Fatalf("duplicate token after %d issues: %s", i, tok)
		}
		seen[tok] = true
	}
}

func TestPixelURL(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		token string
		want  string
	}{
		{"plain", "https://open.example.com", "abc-123", "https://open.example.com/track?text=abc-123"},
		{"trailing slash", "https://open.example.com/", "abc-123", "https://open.example.com/track?text=abc-123"},
		{"legacy timestamp token", "http://localhost:8080", "1700000000000", "http://localhost:8080/track?text=1700000000000"},
		{"token needing escape", "https://open.example.com", "a b", "https://open.example.com/track?text=a+b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PixelURL(tt.base, tt.token)
			if got != tt.want {
				t.Errorf("PixelURL(%q, %q) = %q, want %q", tt.base, tt.token, got, tt.want)
			}
		})
	}
}

func TestInjectPixel(t *testing.T) {
	base := "https://open.example.com"
	tok := "tok-1"

	withBody := `<html><body><p>hi</p></body></html>`
	out := InjectPixel(withBody, base, tok)
	if !strings.Contains(out, `/track?text=tok-1`) {
		t.Errorf("pixel not injected: %s", out)
	}
	if !strings.HasSuffix(out, "</body></html>") {
		t.Errorf("pixel injected outside body: %s", out)
	}

	noBody := `<p>hi</p>`
	out = InjectPixel(noBody, base, tok)
	if !strings.HasPrefix(out, noBody) || !strings.Contains(out, ImgTag(base, tok)) {
		t.Errorf("pixel not appended: %s", out)
	}
}
