package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Home & Kitchen", "home-kitchen"},
		{"  Paddle Boards  ", "paddle-boards"},
		{"ACME (Pty) Ltd.", "acme-pty-ltd"},
		{"already-slugged", "already-slugged"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
