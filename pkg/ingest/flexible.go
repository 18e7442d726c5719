package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// flexibleText converts a json.RawMessage to a string, handling fields the
// source system exports as numbers or booleans instead of strings (codes and
// flags arrive both ways across snapshots). Returns false for null/empty.
func flexibleText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	// Try string first
	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal, true
	}

	// Try number
	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal)), true
		}
		return fmt.Sprintf("%g", numVal), true
	}

	// Try boolean
	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal), true
	}

	// Fallback: return raw string representation
	return string(raw), true
}

// cleanedText applies the empty-value convention: whitespace-only strings
// count as missing so they load as nulls rather than empty text.
func cleanedText(raw json.RawMessage) (string, bool) {
	s, ok := flexibleText(raw)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
