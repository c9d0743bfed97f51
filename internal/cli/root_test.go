package cli

import (
	"testing"

	"github.com/matzehuels/meldgrid/pkg/buildinfo"
)

func TestSetVersion(t *testing.T) {
	v, c, d := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	t.Cleanup(func() { buildinfo.Version, buildinfo.Commit, buildinfo.Date = v, c, d })

	SetVersion("1.0.0", "abc123", "2024-01-01")

	if buildinfo.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", buildinfo.Version, "1.0.0")
	}
	if buildinfo.Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", buildinfo.Commit, "abc123")
	}
	if buildinfo.Date != "2024-01-01" {
		t.Errorf("Date = %q, want %q", buildinfo.Date, "2024-01-01")
	}
}

func TestSetVersionEmptyKeepsLdflags(t *testing.T) {
	v, c, d := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	t.Cleanup(func() { buildinfo.Version, buildinfo.Commit, buildinfo.Date = v, c, d })

	SetVersion("", "", "")

	if buildinfo.Version != v || buildinfo.Commit != c || buildinfo.Date != d {
		t.Errorf("SetVersion with empty values changed build info to %s", buildinfo.String())
	}
}
