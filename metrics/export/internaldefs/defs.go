package internaldefs

import (
	"strconv"

	goToken "github.com/MrEthical07/goToken"
)

// CounterDef binds an issuer counter to its exported name.
type CounterDef struct {
	ID   goToken.MetricID
	Name string
	Help string
}

// HistogramDef binds an issuer histogram to its exported name.
type HistogramDef struct {
	ID   goToken.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter in export order.
var CounterDefs = []CounterDef{
	{ID: goToken.MetricTokenIssued, Name: "gotoken_issued_total", Help: "Tokens issued."},
	{ID: goToken.MetricTokenValidationFailure, Name: "gotoken_validation_failure_total", Help: "Issuance requests rejected for invalid identifiers."},
	{ID: goToken.MetricTokenSigningFailure, Name: "gotoken_signing_failure_total", Help: "Issuance requests the signing backend could not serve."},
}

// HistogramDefs lists every histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: goToken.MetricIssueLatency, Name: "gotoken_issue_latency_seconds", Help: "Token issuance latency histogram."},
}

// AuditDroppedName is the counter for audit events lost to dispatcher backpressure.
const AuditDroppedName = "gotoken_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// IssuerInfoName is a constant-one gauge whose labels describe the tokens the issuer mints.
const IssuerInfoName = "gotoken_issuer_info"

// IssuerInfoHelp describes IssuerInfoName.
const IssuerInfoHelp = "Issuer token shape; the value is always 1."

// Label is one name/value pair on a series.
type Label struct {
	Name  string
	Value string
}

// IssuerInfoLabels returns the info labels for r in a fixed order.
// A zero report yields nil so sources without an issuer behind them export no info series.
func IssuerInfoLabels(r goToken.IssuerReport) []Label {
	if r.Algorithm == "" {
		return nil
	}
	return []Label{
		{Name: "alg", Value: r.Algorithm},
		{Name: "typ", Value: r.TokenType},
		{Name: "exp_format", Value: r.ExpirationFormat},
		{Name: "validity_seconds", Value: strconv.FormatInt(int64(r.ValidityWindow.Seconds()), 10)},
	}
}

// ExportAuditDropped reports whether the audit drop counter belongs in the output.
// Issuers built without an audit sink have no dispatcher to drop from.
func ExportAuditDropped(r goToken.IssuerReport) bool {
	return r.AuditEnabled
}

// HistogramBounds are the upper bounds in seconds; they mirror the issuer's bucket layout.
var HistogramBounds = []string{
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"0.005",
	"0.025",
	"+Inf",
}

// HistogramBoundSuffix names each bound in instrument names, which cannot contain dots.
var HistogramBoundSuffix = []string{
	"0_00005",
	"0_0001",
	"0_00025",
	"0_0005",
	"0_001",
	"0_005",
	"0_025",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into le-style running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
