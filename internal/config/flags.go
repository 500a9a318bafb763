package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagScene   = flag.String("scene", "", "Path to scene file")
	flagTicks   = flag.Int("ticks", 0, "Number of fixed steps to run (0 = until the script ends)")
	flagRate    = flag.Int("rate", 0, "Fixed steps per second")
	flagLogFile = flag.String("log-file", "", "Write JSON logs to this file")
	flagQuiet   = flag.Bool("quiet", false, "Disable console logging")

	flagWriteConfig = flag.String("write-config", "", "Write the effective config to this path (- for stdout) and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the --write-config destination, empty when unset.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Sim.Scene = *flagScene
	}
	if *flagTicks > 0 {
		cfg.Sim.Ticks = *flagTicks
	}
	if *flagRate > 0 {
		cfg.Sim.TickRate = *flagRate
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagQuiet {
		cfg.Logging.Console = false
	}
}
