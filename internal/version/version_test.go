package version

import "testing"

func TestInfoString(t *testing.T) {
	i := Info{Version: "1.2.0", Commit: "abc123", Dirty: "false"}
	if got := i.String(); got != "1.2.0 (abc123)" {
		t.Fatalf("unexpected %q", got)
	}
	i.Dirty = "true"
	if got := i.String(); got != "1.2.0 (abc123) dirty" {
		t.Fatalf("unexpected %q", got)
	}
}
