package configs

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// environment holds the variables passman honors.
type environment struct {
	// BaseDir overrides the whole data directory.
	BaseDir string `env:"PASSMAN_DIR"`

	// DataHome is used when BaseDir is unset: <DataHome>/passman.
	DataHome string `env:"XDG_DATA_HOME"`

	Home string `env:"HOME"`

	Editor            string `env:"EDITOR"`
	PublicKeyFilename string `env:"PASSMAN_PUBLIC_KEY"`

	// Backend forces a crypto extension ("age" or "rage").
	Backend string `env:"PASSMAN_BACKEND"`
}

// parseEnv populates an environment from vars, or from the process
// environment when vars is nil.
func parseEnv(vars map[string]string) (*environment, error) {
	e := &environment{}
	opts := env.Options{}
	if vars != nil {
		opts.Environment = vars
	}
	if err := env.ParseWithOptions(e, opts); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}
	return e, nil
}
