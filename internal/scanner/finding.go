package scanner

import "time"

// Severity classifies the overall risk of a finding.
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
)

// IsValid reports whether the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityOK, SeverityWarning, SeverityCritical, SeverityError:
		return true
	}
	return false
}

// Finding is the terminal result of a single posture check against one domain.
// It is always returned, never an error: fetch failures are folded into the
// record with Success=false and Severity=SeverityError.
type Finding struct {
	Domain    string    `json:"domain"`
	Success   bool      `json:"success"`
	Severity  Severity  `json:"severity"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error,omitempty"`

	Cookies *CookieReport `json:"cookies,omitempty"`
	HSTS    *HSTSReport   `json:"hsts,omitempty"`
}

// CookieReport describes cookie attribute hygiene for one response.
type CookieReport struct {
	CookieCount int            `json:"cookie_count"`
	Records     []CookieRecord `json:"records,omitempty"`
	Issues      []CookieIssue  `json:"issues,omitempty"`
}

// CookieRecord captures the security attributes of a single Set-Cookie value.
type CookieRecord struct {
	Name            string `json:"name"`
	Secure          bool   `json:"secure"`
	HTTPOnly        bool   `json:"http_only"`
	SameSitePresent bool   `json:"samesite_present"`
}

// CookieIssue lists the missing attributes of one problematic cookie along
// with a truncated copy of the raw header value for diagnostic display.
type CookieIssue struct {
	Name   string   `json:"name"`
	Issues []string `json:"issues"`
	Raw    string   `json:"raw"`
}

// HSTSReport describes the parsed Strict-Transport-Security policy.
type HSTSReport struct {
	Enabled           bool     `json:"enabled"`
	MaxAgeSeconds     int      `json:"max_age_seconds"`
	MaxAgeDays        int      `json:"max_age_days"`
	IncludeSubDomains bool     `json:"include_subdomains"`
	Preload           bool     `json:"preload"`
	Issues            []string `json:"issues,omitempty"`
}

// errorFinding builds the uniform fetch-failure record shared by all scanners.
func errorFinding(domain, status string, err error) Finding {
	return Finding{
		Domain:    domain,
		Success:   false,
		Severity:  SeverityError,
		Status:    status,
		Message:   "failed to fetch " + domain + ": " + err.Error(),
		CheckedAt: time.Now().UTC(),
		Error:     err.Error(),
	}
}
