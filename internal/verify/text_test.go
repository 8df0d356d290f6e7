package verify

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "the moon orbits the earth", "the moon orbits the earth"},
		{"whitespace collapsed", "  the moon\n\torbits   the earth ", "the moon orbits the earth"},
		{"html stripped", "<p>The <b>moon</b> orbits the earth.</p>", "The moon orbits the earth."},
		{"script content dropped", "<div>visible</div><script>alert(1)</script>", "visible"},
		{"angle bracket math kept", "for all n < m the bound holds", "for all n < m the bound holds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
