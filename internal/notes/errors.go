package notes

import "fmt"

// ConfigError reports missing or invalid configuration. It is raised before any network call.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Setting, e.Reason)
}

// ErrCredentialNotSet is returned when no API key is stored in settings
var ErrCredentialNotSet = &ConfigError{Setting: KeyAPIKey, Reason: "credential not set"}

// RequestError wraps a failed or malformed chat completion call
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("generation request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
