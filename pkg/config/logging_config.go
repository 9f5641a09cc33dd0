package config

// LoggingConfig selects how the relayer and relaycodec log. It maps onto
// logging.Options.
type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn or error
	Format     string `yaml:"format"`      // console or json
	OutputFile string `yaml:"output_file"` // appended to; stderr when empty
}
