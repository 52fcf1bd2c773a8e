package utils

import (
	"encoding/base64"
	"strconv"
	"strings"
)

const cursorPrefix = "m:"

// EncodeCursor hides the last seen id behind an opaque token
func EncodeCursor(lastID uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + strconv.FormatUint(uint64(lastID), 10)))
}

// DecodeCursor reverses EncodeCursor. An empty cursor decodes to 0.
func DecodeCursor(cursor string) (uint, error) {
	if cursor == "" {
		return 0, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil || !strings.HasPrefix(string(raw), cursorPrefix) {
		return 0, NewValidationError("invalid cursor")
	}

	id, err := strconv.ParseUint(strings.TrimPrefix(string(raw), cursorPrefix), 10, 64)
	if err != nil {
		return 0, NewValidationError("invalid cursor")
	}
	return uint(id), nil
}
