package summarize

import (
	"fmt"

	"newsdigest/pkg/config"
)

// LoadCharacterLimitFromEnv reads SUMMARIZER_CHAR_LIMIT, falling back to
// DefaultCharacterLimit when it is unset or unparseable, and returns an
// error when the value lies outside [MinCharacterLimit, MaxCharacterLimit].
func LoadCharacterLimitFromEnv() (int, error) {
	limit := config.GetEnvInt("SUMMARIZER_CHAR_LIMIT", DefaultCharacterLimit)
	if err := ValidateCharacterLimit(limit); err != nil {
		return 0, err
	}
	return limit, nil
}

// ValidateCharacterLimit reports whether limit falls within the allowed
// [MinCharacterLimit, MaxCharacterLimit] range.
func ValidateCharacterLimit(limit int) error {
	if limit < MinCharacterLimit || limit > MaxCharacterLimit {
		return fmt.Errorf("summarize: character limit %d outside allowed range [%d, %d]",
			limit, MinCharacterLimit, MaxCharacterLimit)
	}
	return nil
}
