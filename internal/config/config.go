package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// File names consulted by Load.
const (
	GlobalFile  = "config.yaml"     // inside Dir()
	ProjectFile = ".daylio2md.yaml" // in the working directory
	EnvPrefix   = "DAYLIO2MD"
)

// Config holds conversion settings. Keys match the convert flags with
// dashes replaced by underscores.
type Config struct {
	Markdown      string `mapstructure:"markdown"`
	Media         string `mapstructure:"media"`
	Template      string `mapstructure:"template"`
	Engine        string `mapstructure:"engine"`
	SkipEmpty     bool   `mapstructure:"skip_empty"`
	IgnoreVersion bool   `mapstructure:"ignore_version"`
	Nested        bool   `mapstructure:"nested"`
	KeepExisting  bool   `mapstructure:"keep_existing"`
	LogFile       string `mapstructure:"log_file"`

	// Files lists the config files that were read, lowest precedence first.
	Files []string `mapstructure:"-"`
}

var defaults = map[string]any{
	"markdown":       "",
	"media":          "",
	"template":       "default",
	"engine":         "",
	"skip_empty":     false,
	"ignore_version": false,
	"nested":         false,
	"keep_existing":  false,
	"log_file":       "",
}

// Load resolves settings with precedence, highest first: flags the user
// set explicitly, DAYLIO2MD_* environment variables, ./.daylio2md.yaml,
// <config dir>/config.yaml, defaults. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var files []string
	candidates := []string{ProjectFile}
	if dir := Dir(); dir != "" {
		candidates = []string{filepath.Join(dir, GlobalFile), ProjectFile}
	}
	for _, path := range candidates {
		read, err := mergeFile(v, path)
		if err != nil {
			return nil, err
		}
		if read {
			files = append(files, path)
		}
	}

	if flags != nil {
		for key := range defaults {
			flag := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", flag.Name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.Files = files
	return &cfg, nil
}

// mergeFile merges a YAML config file into v. A missing file is not an
// error.
func mergeFile(v *viper.Viper, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("config file %s: %w", path, err)
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return false, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return true, nil
}
