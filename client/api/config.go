package api

import (
	"fmt"
	"time"

	"campusclub/internal/xtime"
)

type Config struct {
	// BaseURL is the origin of the club management API, e.g.
	// "http://localhost:8080". Never hardcoded; always configured.
	BaseURL string         `toml:"base_url" env:"CAMPUSCLUB_API_BASE_URL"`
	Timeout xtime.Duration `toml:"timeout" env:"CAMPUSCLUB_API_TIMEOUT"`
	Every   xtime.Duration `toml:"every"`
	Burst   int            `toml:"burst"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n BaseURL: %s\n Timeout: %s\n Every: %s\n Burst: %d",
		c.BaseURL,
		c.Timeout,
		c.Every,
		c.Burst,
	)
}

func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		Timeout: xtime.Duration(10 * time.Second),
		Every:   xtime.Duration(50 * time.Millisecond),
		Burst:   10,
	}
}
