package engine

import (
	"github.com/quarrydb/quarry/pkg/cfg"
)

// LoadConfig builds the engine config from flag defaults, overridden by the
// YAML file at path (if not empty), overridden by the command line args.
func LoadConfig(path string, args []string) (Config, error) {
	var c Config
	if err := cfg.Unmarshal(&c,
		cfg.Defaults(),
		cfg.YAMLFile(path),
		cfg.Flags(args),
	); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
