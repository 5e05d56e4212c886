package helpers

import (
	"time"

	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/logger"
)

// ParseDuration reads a configured duration such as "30s", falling back to fallback
// when value is empty or malformed.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Unparseable duration, using fallback")
		return fallback
	}
	return d
}

// ParseOptionalDate parses value with layout as a UTC date. An empty value yields nil.
func ParseOptionalDate(value, layout string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
