package strutils

import (
	"fmt"
	"strings"
	"unicode"
)

const VALID_HEX_DIGITS = "0123456789abcdefABCDEF"

const STRIPPED_UUID_LENGTH = 32

// Converts to the lowercase dashed form (8-4-4-4-12), ignoring any dashes in the input
//
// User ids come from the auth provider and are quoted both with and without dashes.
func NormalizeUUID(uuid string) (string, error) {
	var stripped strings.Builder
	stripped.Grow(STRIPPED_UUID_LENGTH)

	for _, char := range uuid {
		if char == '-' {
			continue
		}
		if !strings.ContainsRune(VALID_HEX_DIGITS, char) {
			return "", fmt.Errorf("invalid character in UUID. input: '%s'", uuid)
		}
		stripped.WriteRune(unicode.ToLower(char))
	}
	if stripped.Len() != STRIPPED_UUID_LENGTH {
		return "", fmt.Errorf("normalized UUID has incorrect length. input: '%s'", uuid)
	}

	s := stripped.String()
	return fmt.Sprintf("%s-%s-%s-%s-%s", s[0:8], s[8:12], s[12:16], s[16:20], s[20:32]), nil
}

func UUIDIsNormalized(uuid string) bool {
	normalized, err := NormalizeUUID(uuid)
	return err == nil && normalized == uuid
}
