package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/pboyd/jitload"
)

// fileConfig is the layout of the -config file.
type fileConfig struct {
	Program programConfig  `toml:"program"`
	Loader  jitload.Config `toml:"loader"`
}

type programConfig struct {
	// Message is written by the generated program.
	Message string `toml:"message"`

	// FD is the file descriptor it is written to.
	FD int `toml:"fd"`
}

func defaultConfig() *fileConfig {
	return &fileConfig{
		Program: programConfig{
			Message: "asdf zuyt...?\n",
			FD:      1,
		},
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults.
func loadConfig(path string) (*fileConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = toml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// overrides holds the flags given on the command line. Nil fields were not
// set.
type overrides struct {
	message *string
	fd      *int
	wx      *bool
}

func (cfg *fileConfig) apply(o overrides) {
	if o.message != nil {
		cfg.Program.Message = *o.message
	}
	if o.fd != nil {
		cfg.Program.FD = *o.fd
	}
	if o.wx != nil {
		cfg.Loader.WriteXorExecute = *o.wx
	}
}
