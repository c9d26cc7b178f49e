package fileutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMimeType is returned in strict mode when a mime type is absent or
// has no known file extension.
var ErrUnknownMimeType = errors.New("unexpected mime type")

// Extensions ExtensionForMimeType can return.
const (
	ExtText = ".txt"
	ExtHTML = ".html"
	ExtPDF  = ".pdf"
)

// ExtensionForMimeType maps a mime type to the extension a license file of
// that type is stored under. An empty mimeType is treated as absent. Matching
// is case-insensitive and checked in order: "plain" (or exactly "text/x-c"),
// "html", "pdf". Anything else yields "" or, when strict is set, an error
// wrapping ErrUnknownMimeType.
func ExtensionForMimeType(mimeType string, strict bool) (string, error) {
	if mimeType == "" {
		if strict {
			return "", fmt.Errorf("%w: none given", ErrUnknownMimeType)
		}
		return "", nil
	}

	lower := strings.ToLower(mimeType)
	switch {
	case strings.Contains(lower, "plain") || lower == "text/x-c":
		return ExtText, nil
	case strings.Contains(lower, "html"):
		return ExtHTML, nil
	case strings.Contains(lower, "pdf"):
		return ExtPDF, nil
	}

	if strict {
		return "", fmt.Errorf("%w '%s'", ErrUnknownMimeType, mimeType)
	}
	return "", nil
}
