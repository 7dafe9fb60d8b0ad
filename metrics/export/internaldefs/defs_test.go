package internaldefs

import (
	"testing"
	"time"

	goToken "github.com/MrEthical07/goToken"
)

func TestBoundsAndSuffixesAlign(t *testing.T) {
	if len(HistogramBounds) != 8 || len(HistogramBoundSuffix) != 8 {
		t.Fatalf("expected 8 bounds and suffixes, got %d and %d", len(HistogramBounds), len(HistogramBoundSuffix))
	}
	if HistogramBounds[7] != "+Inf" || HistogramBoundSuffix[7] != "inf" {
		t.Fatal("last bucket must be +Inf")
	}
}

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 3}))
	want := [8]uint64{1, 3, 6, 6, 6, 6, 6, 6}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCounterNamesUnique(t *testing.T) {
	seen := map[string]bool{AuditDroppedName: true}
	for _, def := range CounterDefs {
		if seen[def.Name] {
			t.Fatalf("duplicate metric name %s", def.Name)
		}
		seen[def.Name] = true
	}
}

func TestIssuerInfoLabels(t *testing.T) {
	if got := IssuerInfoLabels(goToken.IssuerReport{}); got != nil {
		t.Fatalf("expected no labels for a zero report, got %v", got)
	}

	got := IssuerInfoLabels(goToken.IssuerReport{
		Algorithm:        "EdDSA",
		TokenType:        "JWT",
		ValidityWindow:   30 * time.Minute,
		ExpirationFormat: "rfc3339",
	})
	want := []Label{
		{Name: "alg", Value: "EdDSA"},
		{Name: "typ", Value: "JWT"},
		{Name: "exp_format", Value: "rfc3339"},
		{Name: "validity_seconds", Value: "1800"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d labels, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("label %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestExportAuditDroppedFollowsReport(t *testing.T) {
	if ExportAuditDropped(goToken.IssuerReport{}) {
		t.Fatal("audit counter must be skipped when audit is off")
	}
	if !ExportAuditDropped(goToken.IssuerReport{AuditEnabled: true}) {
		t.Fatal("audit counter must be exported when audit is on")
	}
}
