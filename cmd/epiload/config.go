package main

import (
	"fmt"

	"github.com/arloliu/epiload"
	"github.com/arloliu/fuda"
	"github.com/spf13/pflag"
)

// cliOptions holds values for the global flags.
// Uses fuda struct tags for defaults and env var binding.
type cliOptions struct {
	ConfigPath  string `yaml:"config" env:"EPILOAD_CONFIG"`
	LogLevel    string `yaml:"logLevel"`
	MaxFileSize int64  `yaml:"maxFileSize"`
}

func newCLIOptions() *cliOptions {
	o := &cliOptions{}
	_ = fuda.SetDefaults(o)
	// EPILOAD_CONFIG names the config file when --config is absent
	_ = fuda.LoadEnv(o)

	return o
}

func (o *cliOptions) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config", o.ConfigPath, "config file (YAML or JSON)")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level: debug, info, warn, error")
	fs.Int64Var(&o.MaxFileSize, "max-file-size", o.MaxFileSize, "largest accepted file in bytes")
}

// loadConfig reads the config file (or defaults) and applies flags that were set.
// Flags win over the file and the environment.
func (o *cliOptions) loadConfig(fs *pflag.FlagSet) (*epiload.Config, error) {
	var (
		cfg *epiload.Config
		err error
	)
	if o.ConfigPath != "" {
		cfg, err = epiload.LoadConfig(o.ConfigPath)
	} else {
		cfg, err = epiload.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}

	if fs.Changed("log-level") {
		if _, err := epiload.ParseLevel(o.LogLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = o.LogLevel
	}
	if fs.Changed("max-file-size") {
		if o.MaxFileSize <= 0 {
			return nil, fmt.Errorf("--max-file-size must be positive, got %d", o.MaxFileSize)
		}
		cfg.Upload.MaxFileSize = o.MaxFileSize
	}

	return cfg, nil
}
