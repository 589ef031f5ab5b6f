package config

import (
	"fmt"
	"os"
	"text/tabwriter"
)

const HelpMessage = `
Scheduled ride dispatcher.

Usage:
  ride-scheduler --mode=<mode> [--config-path=<path>]
  ride-scheduler --help

Modes:
  scheduler   run a dispatch cycle every tick until SIGINT or SIGTERM
  once        run a single dispatch cycle and exit, status 1 on failure

Options:
  --config-path   path to the yaml config file (default "config.yaml")
  --help          show this message

Every yaml key can be overridden by an environment variable,
e.g. database.host -> DATABASE_HOST.
`

func PrintHelp() {
	fmt.Print(HelpMessage)
}

// PrintConfig prints the effective configuration without secrets.
func PrintConfig(cfg *Config) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "mode\t%s\n", cfg.Mode)
	fmt.Fprintf(w, "database\t%s:%s/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	fmt.Fprintf(w, "rabbitmq\t%s:%s\n", cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	if cfg.Redis.Enabled() {
		fmt.Fprintf(w, "redis\t%s/%d\n", cfg.Redis.Addr, cfg.Redis.DB)
	} else {
		fmt.Fprintf(w, "redis\tdisabled\n")
	}
	fmt.Fprintf(w, "tick interval\t%s\n", cfg.Scheduler.TickInterval)
	fmt.Fprintf(w, "lock ttl\t%s\n", cfg.Scheduler.LockTTL)
	fmt.Fprintf(w, "log level\t%s\n", cfg.Scheduler.LogLevel)
	fmt.Fprintf(w, "http port\t%s\n", cfg.HTTP.Port)
}
