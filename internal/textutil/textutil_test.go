package textutil

import (
	"strings"
	"testing"
)

func TestFoldKey(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"case", "Portrait", "portrait", true},
		{"whitespace", "Oil on  Canvas", " oil on canvas ", true},
		{"accented", "Élan", "éLAN", true},
		{"different", "Portrait", "Landscape", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FoldKey(tt.a) == FoldKey(tt.b)
			if got != tt.equal {
				t.Fatalf("FoldKey(%q)=%q FoldKey(%q)=%q, equal=%v want %v", tt.a, FoldKey(tt.a), tt.b, FoldKey(tt.b), got, tt.equal)
			}
		})
	}
	if FoldKey("   ") != "" {
		t.Fatal("expected blank input to fold to empty key")
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/home/user/Thumbnails", "home_user_thumbnails"},
		{"", "unknown"},
		{"///", "unknown"},
		{"Study-01_final", "study-01_final"},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.in); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := "/" + strings.Repeat("a", 100) + "/thumbs"
	got := SanitizeToken(long)
	if len(got) > maxTokenLength || !strings.HasSuffix(got, "thumbs") {
		t.Fatalf("expected bounded token keeping the tail, got %q", got)
	}
}
