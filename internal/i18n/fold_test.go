package i18n

import "testing"

func TestSameName(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Math", "math", true},
		{"Mathématiques", "MATHÉMATIQUES", true},
		{"Straße", "STRASSE", true},
		{"Math", "Maths", false},
		{"", "", true},
	}
	for _, tt := range tests {
		if got := SameName(tt.a, tt.b); got != tt.want {
			t.Errorf("SameName(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
