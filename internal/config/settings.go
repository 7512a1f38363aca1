package config

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultMaxPages  = 5
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10.0
)

// Environment variables consulted before the config file. MailtoEnv wins over
// CrossrefMailtoEnv.
const (
	MailtoEnv         = "PDFRENAME_MAILTO"
	CrossrefMailtoEnv = "CROSSREF_MAILTO"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Settings are the effective runtime settings.
type Settings struct {
	Mailto      string
	CrossrefURL string // Empty means the client default
	DOIURL      string // Empty means the client default
	MaxPages    int
	Timeout     time.Duration
	RateLimit   float64
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		MaxPages:  DefaultMaxPages,
		Timeout:   DefaultTimeout,
		RateLimit: DefaultRateLimit,
	}
}

// Resolve merges a global config and the environment over the defaults and
// validates the result. A nil config is treated as empty.
func Resolve(g *GlobalConfig) (Settings, error) {
	s := Default()
	if g == nil {
		g = &GlobalConfig{}
	}

	s.Mailto = GetConfigValue(MailtoEnv, GetConfigValue(CrossrefMailtoEnv, g.Mailto))
	s.CrossrefURL = g.CrossrefURL
	s.DOIURL = g.DOIURL

	if g.MaxPages < 0 {
		return Settings{}, fmt.Errorf("%w: max_pages must not be negative (got %d)", ErrInvalidConfig, g.MaxPages)
	}
	if g.MaxPages > 0 {
		s.MaxPages = g.MaxPages
	}

	if g.Timeout != "" {
		d, err := time.ParseDuration(g.Timeout)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: timeout: %v", ErrInvalidConfig, err)
		}
		if d <= 0 {
			return Settings{}, fmt.Errorf("%w: timeout must be positive (got %s)", ErrInvalidConfig, g.Timeout)
		}
		s.Timeout = d
	}

	if g.RateLimit < 0 {
		return Settings{}, fmt.Errorf("%w: rate_limit must be positive (got %v)", ErrInvalidConfig, g.RateLimit)
	}
	if g.RateLimit > 0 {
		s.RateLimit = g.RateLimit
	}

	return s, nil
}

// Load reads the global config and resolves it.
func Load() (Settings, error) {
	g, err := LoadGlobalConfig()
	if err != nil {
		return Settings{}, err
	}
	return Resolve(g)
}
