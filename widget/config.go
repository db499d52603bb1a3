package widget

import "fmt"

type Config struct {
	Addr string `toml:"addr" env:"CAMPUSCLUB_WIDGET_ADDR"`
	// Dev serves templates and static files from disk and enables live
	// reload instead of using the embedded copies.
	Dev bool `toml:"dev" env:"CAMPUSCLUB_WIDGET_DEV"`
	// CSRFKey is the 32-byte secret for the form token. Required.
	CSRFKey string `toml:"csrf_key" env:"CAMPUSCLUB_WIDGET_CSRF_KEY"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n Addr: %s\n Dev: %t\n CSRFKey: %s",
		c.Addr,
		c.Dev,
		censor(c.CSRFKey),
	)
}

func censor(s string) string {
	if s == "" {
		return "<empty>"
	}
	return "<redacted>"
}

func DefaultConfig() Config {
	return Config{
		Addr: ":8090",
	}
}
