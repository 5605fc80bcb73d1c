package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// fileConfig is the shape of .jlispconfig.yaml: default flag values
// picked up when the corresponding CLI flag is left unset.
type fileConfig struct {
	JSON bool `yaml:"json"`
}

// loadConfig reads .jlispconfig.yaml from the current directory. A
// missing file is not an error; every field defaults to its zero value.
func loadConfig() (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(".jlispconfig.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyConfigDefaults fills --json from the config file when the flag
// was not explicitly set on the command line.
func applyConfigDefaults(explicitlySet bool) {
	if explicitlySet {
		return
	}
	cfg, err := loadConfig()
	if err != nil {
		return
	}
	if cfg.JSON {
		jsonOutput = true
	}
}
