package ai

import (
	"testing"

	"github.com/sprite-ai/prrev/internal/model"
)

const envelopeReply = `{
  "feedback": [
    {
      "category": "security",
      "severity": "critical",
      "impact": "high",
      "line_start": 12,
      "line_end": 14,
      "message": "User input concatenated into SQL query",
      "suggestion": "Use a parameterized query"
    },
    {
      "category": "style",
      "severity": "warning",
      "line_start": 3,
      "message": "Exported function lacks a doc comment"
    }
  ]
}`

func TestParseFindingsEnvelope(t *testing.T) {
	res := ParseFindings(envelopeReply, "db.go")

	if res.Degraded {
		t.Fatal("valid reply marked degraded")
	}
	if len(res.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(res.Findings))
	}

	f := res.Findings[0]
	if f.Severity != model.SeverityCritical || f.Category != model.CategorySecurity {
		t.Errorf("finding[0] = %s/%s", f.Severity, f.Category)
	}
	if f.File != "db.go" || f.LineStart != 12 || f.LineEnd != 14 {
		t.Errorf("finding[0] location = %s:%d-%d", f.File, f.LineStart, f.LineEnd)
	}
	if f.Source != "ai" {
		t.Errorf("finding[0] source = %q", f.Source)
	}

	// Missing impact defaults from severity: warning -> medium.
	if res.Findings[1].Impact != model.ImpactMedium {
		t.Errorf("finding[1] impact = %s, want medium", res.Findings[1].Impact)
	}
}

func TestParseFindingsBareArray(t *testing.T) {
	raw := `[{"category":"bugs","severity":"error","message":"off-by-one in loop bound","line_start":7}]`
	res := ParseFindings(raw, "loop.go")
	if res.Degraded || len(res.Findings) != 1 {
		t.Fatalf("res = %+v", res)
	}
	if res.Findings[0].Category != model.CategoryBugs {
		t.Errorf("category = %s", res.Findings[0].Category)
	}
}

func TestParseFindingsFenced(t *testing.T) {
	raw := "```json\n" + envelopeReply + "\n```"
	res := ParseFindings(raw, "db.go")
	if res.Degraded || len(res.Findings) != 2 {
		t.Fatalf("fenced reply not parsed: %+v", res)
	}
}

func TestParseFindingsProseAroundJSON(t *testing.T) {
	raw := "Here is my review:\n" + envelopeReply + "\nLet me know if you need more."
	res := ParseFindings(raw, "db.go")
	if res.Degraded || len(res.Findings) != 2 {
		t.Fatalf("wrapped reply not parsed: %+v", res)
	}
}

func TestParseFindingsEmptyFeedbackIsClean(t *testing.T) {
	res := ParseFindings(`{"feedback": []}`, "ok.go")
	if res.Degraded {
		t.Error("empty feedback marked degraded")
	}
	if len(res.Findings) != 0 {
		t.Errorf("expected no findings, got %d", len(res.Findings))
	}
}

func TestParseFindingsProseFallsBack(t *testing.T) {
	for _, raw := range []string{
		"The code looks mostly fine, though naming could improve.",
		"",
		"{not json at all",
		`{"unrelated": true}`,
	} {
		res := ParseFindings(raw, "a.go")
		if !res.Degraded {
			t.Errorf("ParseFindings(%q) not degraded", raw)
			continue
		}
		if len(res.Findings) != 1 {
			t.Fatalf("degraded result has %d findings", len(res.Findings))
		}
		f := res.Findings[0]
		if f.Severity != model.SeverityInfo || f.Impact != model.ImpactLow {
			t.Errorf("placeholder = %s/%s, want info/low", f.Severity, f.Impact)
		}
		if f.Message != FallbackMessage {
			t.Errorf("placeholder message = %q", f.Message)
		}
	}
}

func TestParseFindingsSkipsEmptyMessages(t *testing.T) {
	raw := `{"feedback": [{"category":"style","severity":"info","message":"  "}]}`
	res := ParseFindings(raw, "a.go")
	if res.Degraded {
		t.Fatal("marked degraded")
	}
	if len(res.Findings) != 0 {
		t.Errorf("blank-message entry survived: %+v", res.Findings)
	}
}
