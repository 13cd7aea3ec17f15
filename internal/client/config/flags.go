package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

// parseFlags overlays cfg with the short flags listed in the package doc.
// Other arguments are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-d", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the notes API")
	fs.StringVar(&cfg.HealthAddr, "l", cfg.HealthAddr, "address and port of the health endpoint")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
