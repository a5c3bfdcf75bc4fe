package scanner

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// rawCookieDisplayLimit caps how much of a raw Set-Cookie value is echoed
// back in an issue entry before truncation.
const rawCookieDisplayLimit = 100

// CookieScanner evaluates Set-Cookie attribute hygiene (Secure, HttpOnly,
// SameSite) for a single target response.
type CookieScanner struct {
	Fetcher *Fetcher
}

// Name returns the name of this scanner.
func (s *CookieScanner) Name() string {
	return "scan cookies"
}

// Scan fetches the target and classifies its cookie posture. Fetch failures
// are folded into the finding; Scan never returns an error.
func (s *CookieScanner) Scan(ctx context.Context, target string) Finding {
	fetcher := s.Fetcher
	if fetcher == nil {
		fetcher = &Fetcher{}
	}

	resp, err := fetcher.Fetch(ctx, target)
	if err != nil {
		return errorFinding(target, "Check Failed", err)
	}
	defer drainBody(resp)

	// Header values must stay distinguishable per Set-Cookie occurrence;
	// resp.Header["Set-Cookie"] preserves one entry per header line.
	return AnalyzeCookies(target, resp.Header["Set-Cookie"])
}

// AnalyzeCookies classifies cookie hygiene from the raw Set-Cookie header
// values of a completed response. It is pure: same input, same finding.
func AnalyzeCookies(domain string, setCookies []string) Finding {
	finding := Finding{
		Domain:    domain,
		Success:   true,
		CheckedAt: time.Now().UTC(),
	}

	if len(setCookies) == 0 {
		finding.Severity = SeverityOK
		finding.Status = "No Cookies Set"
		finding.Message = "No Set-Cookie headers found in response"
		finding.Cookies = &CookieReport{CookieCount: 0}
		return finding
	}

	report := &CookieReport{
		CookieCount: len(setCookies),
		Records:     make([]CookieRecord, 0, len(setCookies)),
	}

	allMissingSecure := true
	for i, raw := range setCookies {
		record := parseSetCookie(raw, i)
		report.Records = append(report.Records, record)

		if record.Secure {
			allMissingSecure = false
		}

		var missing []string
		if !record.Secure {
			missing = append(missing, "Missing Secure flag")
		}
		if !record.HTTPOnly {
			missing = append(missing, "Missing HttpOnly flag")
		}
		if !record.SameSitePresent {
			missing = append(missing, "Missing SameSite attribute")
		}
		if len(missing) > 0 {
			report.Issues = append(report.Issues, CookieIssue{
				Name:   record.Name,
				Issues: missing,
				Raw:    truncateRaw(raw),
			})
		}
	}

	finding.Cookies = report
	switch {
	case len(report.Issues) == 0:
		finding.Severity = SeverityOK
		finding.Status = "All Cookies Secure"
		finding.Message = fmt.Sprintf("All %d cookies are properly secured", report.CookieCount)
	case allMissingSecure:
		// Total absence of the Secure flag is categorically worse than
		// partial misconfiguration.
		finding.Severity = SeverityCritical
		finding.Status = "Critical Security Issues"
		finding.Message = fmt.Sprintf("Found %d cookie(s) with security issues out of %d total", len(report.Issues), report.CookieCount)
	default:
		finding.Severity = SeverityWarning
		finding.Status = "Security Issues Found"
		finding.Message = fmt.Sprintf("Found %d cookie(s) with security issues out of %d total", len(report.Issues), report.CookieCount)
	}

	return finding
}

// parseSetCookie extracts the name and security attributes of one Set-Cookie
// value. Malformed values degrade to a positional placeholder name rather
// than failing the whole check.
func parseSetCookie(raw string, index int) CookieRecord {
	segments := strings.Split(raw, ";")

	name, _, _ := strings.Cut(strings.TrimSpace(segments[0]), "=")
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Cookie %d", index+1)
	}

	record := CookieRecord{Name: name}
	for _, segment := range segments[1:] {
		attr := strings.ToLower(strings.TrimSpace(segment))
		switch {
		case attr == "secure":
			record.Secure = true
		case attr == "httponly":
			record.HTTPOnly = true
		case strings.HasPrefix(attr, "samesite"):
			record.SameSitePresent = true
		}
	}
	return record
}

func truncateRaw(raw string) string {
	if len(raw) > rawCookieDisplayLimit {
		return raw[:rawCookieDisplayLimit] + "..."
	}
	return raw
}
