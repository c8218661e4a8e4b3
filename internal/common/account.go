package common

import (
	"path/filepath"
	"strings"

	"fjacquet/swift-mt/internal/models"
)

// Sources of an account identifier.
const (
	AccountSourceContent  = "content"
	AccountSourceFilename = "filename"
)

// AccountIdentifier represents an extracted account identifier with its source
type AccountIdentifier struct {
	ID     string // The account identifier (e.g., "DE89370400440532013000")
	Source string // "content" for field 25, "filename" for the fallback
}

// NormalizeAccount reduces a field 25 value to the account itself. The
// identifier of 25P sits on the first line, and a leading slash is dropped.
func NormalizeAccount(value string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(value), "\n")
	line = strings.TrimPrefix(strings.TrimSpace(line), "/")
	return strings.ToUpper(strings.ReplaceAll(line, " ", ""))
}

// ExtractAccount identifies the account of a statement from its field 25,
// falling back to the base name of the file it came from.
func ExtractAccount(statement *models.Statement, filename string) AccountIdentifier {
	if statement != nil {
		if id := NormalizeAccount(statement.Account); id != "" {
			return AccountIdentifier{ID: id, Source: AccountSourceContent}
		}
	}
	base := filepath.Base(filename)
	return AccountIdentifier{
		ID:     strings.TrimSuffix(base, filepath.Ext(base)),
		Source: AccountSourceFilename,
	}
}

// SanitizeAccountID makes an account identifier safe to use in a file name.
func SanitizeAccountID(accountID string) string {
	sanitized := strings.ReplaceAll(strings.TrimSpace(accountID), " ", "_")

	// Keep alphanumeric, underscores, hyphens, and dots
	var result strings.Builder
	for _, r := range sanitized {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '_' || r == '-' || r == '.' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	sanitized = result.String()

	for strings.Contains(sanitized, "..") {
		sanitized = strings.ReplaceAll(sanitized, "..", "_")
	}
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_.")

	if sanitized == "" {
		sanitized = "UNKNOWN"
	}
	return sanitized
}
