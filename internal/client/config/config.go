// Package config loads runtime configuration for the notekeeper client.
//
// Values are layered: built-in defaults, then an optional JSON file given
// with -c or -config, then short flags:
//
//	-a string   base URL of the notes API (e.g. "http://127.0.0.1:8080")
//	-l string   host:port of the gRPC health endpoint
//	-d string   directory holding the local database
//	-t int      per-request timeout (seconds)
//	-i int      online status check interval (seconds)
package config

import "time"

type Config struct {
	ServerURL           string
	HealthAddr          string
	DataDir             string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.HealthAddr = "127.0.0.1:50051"
	c.DataDir = "data"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig applies defaults, then the JSON file, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
