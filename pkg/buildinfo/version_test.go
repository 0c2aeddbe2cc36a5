package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v0.1.0", "abc123", "2026-01-01T00:00:00Z"

	got := String()
	for _, want := range []string{"version: v0.1.0", "commit: abc123", "built: 2026-01-01T00:00:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v0.1.0") {
		t.Errorf("Template() = %q", Template())
	}
}
