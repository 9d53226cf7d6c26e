package providers

import "time"

// ClientConfig configures one Client instance: which provider/model pair it
// talks to, its credential, and the timeouts spec.md §6 exposes as
// request_timeout_secs/connect_timeout_secs.
type ClientConfig struct {
	Provider    Name
	Model       string
	APIKey      string
	BaseURL     string // overrides Provider.DefaultBaseURL() when non-empty
	Temperature float64
	MaxTokens   int

	RequestTimeout time.Duration
	ConnectTimeout time.Duration
}

// resolvedBaseURL returns c.BaseURL if set, else the provider's default.
func (c ClientConfig) resolvedBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return c.Provider.DefaultBaseURL()
}
