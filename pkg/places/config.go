package places

import "time"

// Config represents the configuration for the Google Places client
type Config struct {
	// APIKey authenticates every request
	APIKey string

	// BaseURL is the Maps web service root, e.g. https://maps.googleapis.com/maps/api
	BaseURL string

	// Language and Region bias results ("pt-BR", "br")
	Language string
	Region   string

	// Timeout bounds a single HTTP call
	Timeout time.Duration
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNotConfigured
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	return nil
}
