package scanner

import (
	"net/url"
	"strings"
)

// NormalizeTarget turns a bare domain into a full URL suitable for fetching.
// Inputs that already carry an http:// or https:// scheme pass through
// unchanged; everything else gets https:// prepended.
func NormalizeTarget(target string) string {
	trimmed := strings.TrimSpace(target)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

// ExtractHost returns the bare hostname of a target, with or without scheme.
func ExtractHost(target string) string {
	parsed, err := url.Parse(NormalizeTarget(target))
	if err != nil || parsed.Hostname() == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(target), "http://"), "https://")
		return strings.Split(host, "/")[0]
	}
	return parsed.Hostname()
}
