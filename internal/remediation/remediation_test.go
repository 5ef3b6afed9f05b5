package remediation

import (
	"strings"
	"testing"
)

func TestFor_KnownAndUnknownOS(t *testing.T) {
	if For("windows").Title == "" {
		t.Error("expected non-empty windows guidance")
	}
	if For("plan9").Title != generic.Title {
		t.Error("expected unknown OS to fall back to generic guidance")
	}
}

func TestSummary_EmptyWhenNoFailures(t *testing.T) {
	if Summary("linux", nil) != "" {
		t.Error("expected empty summary with no denied artifacts")
	}
}

func TestSummary_ListsEachArtifactOnce(t *testing.T) {
	out := Summary("linux", []string{"mft", "eventlog"})
	if strings.Count(out, "mft") != 1 {
		t.Errorf("expected artifact name to appear exactly once, got: %q", out)
	}
	if !strings.Contains(out, "sudo") {
		t.Error("expected linux guidance to mention sudo")
	}
}
