package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagPose     = flag.String("pose", "", "Resting pose applied after load (standing, sitting, none)")
	flagNoSway   = flag.Bool("no-sway", false, "Disable idle arm sway")
	flagNoGaze   = flag.Bool("no-gaze", false, "Disable head and eye tracking")
	flagTextures = flag.String("textures", "", "Extra texture search directory")
	flagWorkers  = flag.Int("workers", 0, "Concurrent texture loads")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	switch *flagPose {
	case "":
	case "none":
		cfg.Pose.Default = ""
	default:
		cfg.Pose.Default = *flagPose
	}
	if *flagNoSway {
		cfg.Sway.Enabled = false
	}
	if *flagNoGaze {
		cfg.Gaze.Enabled = false
	}
	if *flagTextures != "" {
		cfg.Textures.SearchPaths = append(cfg.Textures.SearchPaths, *flagTextures)
	}
	if *flagWorkers > 0 {
		cfg.Textures.Workers = *flagWorkers
	}
}
