package app

import "testing"

func TestBuildVersion_Stamped(t *testing.T) {
	origV, origC, origB := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = origV, origC, origB })

	Version, Commit, BuildTime = "v0.3.0", "abc1234", "2026-10-01T00:00:00Z"

	want := "v0.3.0 (commit: abc1234, built: 2026-10-01T00:00:00Z)"
	if got := BuildVersion(); got != want {
		t.Errorf("BuildVersion() = %q, want %q", got, want)
	}
}

func TestBuildVersion_Defaults(t *testing.T) {
	if got := BuildVersion(); got != "dev (commit: unknown, built: unknown)" {
		t.Errorf("BuildVersion() = %q", got)
	}
}
