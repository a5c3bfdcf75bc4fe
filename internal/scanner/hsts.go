package scanner

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	secondsPerDay         = 86400
	recommendedMaxAge     = 31536000 // one year
	recommendedMaxAgeDays = recommendedMaxAge / secondsPerDay
)

var maxAgePattern = regexp.MustCompile(`(?i)max-age=(\d+)`)

// HSTSScanner evaluates the Strict-Transport-Security policy of a target.
type HSTSScanner struct {
	Fetcher *Fetcher
}

// Name returns the name of this scanner.
func (s *HSTSScanner) Name() string {
	return "scan hsts"
}

// Scan fetches the target and classifies its HSTS posture. Fetch failures
// are folded into the finding; Scan never returns an error.
func (s *HSTSScanner) Scan(ctx context.Context, target string) Finding {
	fetcher := s.Fetcher
	if fetcher == nil {
		fetcher = &Fetcher{}
	}

	resp, err := fetcher.Fetch(ctx, target)
	if err != nil {
		finding := errorFinding(target, "Check Failed", err)
		finding.HSTS = &HSTSReport{Enabled: false}
		return finding
	}
	defer drainBody(resp)

	values := resp.Header[http.CanonicalHeaderKey("Strict-Transport-Security")]
	header := ""
	if len(values) > 0 {
		header = values[0]
	}
	return AnalyzeHSTS(target, header, len(values) > 0)
}

// AnalyzeHSTS classifies HSTS policy strength from the raw header value of a
// completed response. present distinguishes an absent header from an empty one.
func AnalyzeHSTS(domain, header string, present bool) Finding {
	finding := Finding{
		Domain:    domain,
		Success:   true,
		CheckedAt: time.Now().UTC(),
	}

	if !present {
		// First-visit and plain-HTTP entry points stay open to downgrade
		// attacks without the header, so absence is critical.
		finding.Severity = SeverityCritical
		finding.Status = "HSTS Not Enabled"
		finding.Message = "Strict-Transport-Security header is not set"
		finding.HSTS = &HSTSReport{Enabled: false}
		return finding
	}

	report := &HSTSReport{
		Enabled:           true,
		MaxAgeSeconds:     parseMaxAge(header),
		IncludeSubDomains: containsDirective(header, "includesubdomains"),
		Preload:           containsDirective(header, "preload"),
	}
	report.MaxAgeDays = report.MaxAgeSeconds / secondsPerDay

	switch {
	case report.MaxAgeSeconds == 0:
		finding.Severity = SeverityCritical
		finding.Status = "HSTS Misconfigured"
		report.Issues = append(report.Issues, "max-age is 0 (effectively disabled)")
	case report.MaxAgeSeconds < recommendedMaxAge:
		finding.Severity = SeverityWarning
		finding.Status = "HSTS Weak Configuration"
		report.Issues = append(report.Issues,
			fmt.Sprintf("max-age is %d day(s), recommended at least %d days (%d seconds)",
				report.MaxAgeDays, recommendedMaxAgeDays, recommendedMaxAge))
	default:
		finding.Severity = SeverityOK
		finding.Status = "HSTS Enabled"
	}

	if !report.IncludeSubDomains {
		report.Issues = append(report.Issues, "includeSubDomains directive not set")
		// Only raises ok to warning; never escalates warning or touches critical.
		if finding.Severity == SeverityOK {
			finding.Severity = SeverityWarning
			finding.Status = "HSTS Weak Configuration"
		}
	}

	if len(report.Issues) > 0 {
		finding.Message = fmt.Sprintf("HSTS is enabled but has %d issue(s)", len(report.Issues))
	} else {
		finding.Message = fmt.Sprintf("HSTS is properly configured (max-age: %d days)", report.MaxAgeDays)
	}

	finding.HSTS = report
	return finding
}

// parseMaxAge extracts the max-age directive value, defaulting to 0 when the
// directive is missing or malformed.
func parseMaxAge(header string) int {
	match := maxAgePattern.FindStringSubmatch(header)
	if len(match) < 2 {
		return 0
	}
	seconds, err := strconv.Atoi(match[1])
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}

func containsDirective(header, directive string) bool {
	return strings.Contains(strings.ToLower(header), directive)
}
