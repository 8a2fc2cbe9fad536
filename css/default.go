package css

import (
	_ "embed"
)

//go:embed default.css
var defaultUserAgent []byte

// DefaultUserAgent returns the built in user agent stylesheet text.
func DefaultUserAgent() []byte {
	return defaultUserAgent
}
