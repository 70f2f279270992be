package version

import "testing"

func TestString(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	Version, Commit, Date = "1.2.0", "", ""
	if got := String(); got != "1.2.0" {
		t.Fatalf("bare: %q", got)
	}
	Commit, Date = "0123456789abcdef", "2026-10-17"
	if got := String(); got != "1.2.0 (0123456, 2026-10-17)" {
		t.Fatalf("stamped: %q", got)
	}
}
