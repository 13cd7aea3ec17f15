package config

import (
	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/dmitrijs2005/notekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the client config file. Intervals may
// be strings like "3s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL           *string         `json:"server_url"`
	HealthAddr          *string         `json:"health_addr"`
	DataDir             *string         `json:"data_dir"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// It panics on unreadable or malformed files.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	var jc JsonConfig
	if err := flagx.ReadJSON(path, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.HealthAddr != nil {
		cfg.HealthAddr = *jc.HealthAddr
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}
