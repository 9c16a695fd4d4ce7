package urlhandler

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/aleister1102/futwatch/internal/common"
)

// Regex for cleaning filenames
var (
	unsafeFilenameCharsRegex = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)
	multipleUnderscoresRegex = regexp.MustCompile(`_+`)
)

// NormalizeURL normalizes a target URL, ensuring it has a scheme and a host.
// Content endpoints are HTTPS in practice, so a missing scheme defaults to it.
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", common.NewError("URL is empty or only whitespace")
	}

	if !strings.Contains(trimmedURL, "://") && !strings.HasPrefix(trimmedURL, "//") {
		trimmedURL = "https://" + trimmedURL
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return "", common.WrapErrorf(err, "could not parse URL '%s'", trimmedURL)
	}
	if parsedURL.Host == "" {
		return "", common.NewError("URL '%s' lacks a valid hostname", rawURL)
	}

	return parsedURL.String(), nil
}

// ValidateURLFormat validates URL format using net/url parsing (for config validation)
func ValidateURLFormat(rawURL string) error {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return common.NewError("URL is empty")
	}
	if _, err := url.ParseRequestURI(trimmedURL); err != nil {
		return common.WrapErrorf(err, "invalid URL format '%s'", trimmedURL)
	}
	return nil
}

// SanitizeFilename creates a safe file or directory name from a target name or
// URL. It removes the protocol, replaces unsafe characters with underscores,
// and collapses underscore runs.
func SanitizeFilename(input string) string {
	name := input
	if i := strings.Index(name, "://"); i != -1 {
		name = name[i+3:]
	}

	name = unsafeFilenameCharsRegex.ReplaceAllString(name, "_")
	name = multipleUnderscoresRegex.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return "sanitized_empty_input"
	}
	return name
}
