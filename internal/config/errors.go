package config

import "errors"

var (
	// ErrParsingConfig indicates the environment could not be parsed into
	// the configuration struct.
	ErrParsingConfig = errors.New("failed to parse configuration")
	// ErrInvalidConfig indicates one or more validation rules were
	// violated; the joined error lists every one.
	ErrInvalidConfig = errors.New("configuration validation failed")
)
