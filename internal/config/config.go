package config

import "fmt"

// Config holds all halflife configuration.
type Config struct {
	Server Server `toml:"server"`
	Dosing Dosing `toml:"dosing"`
}

type Server struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

// Dosing holds defaults applied when a request or command leaves the
// corresponding value unspecified.
type Dosing struct {
	HalfLifeHours float64 `toml:"half_life_hours"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind: "127.0.0.1",
			Port: 8099,
		},
		Dosing: Dosing{
			HalfLifeHours: 24,
		},
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
