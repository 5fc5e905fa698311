package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "SUMKEEPER"

var envReplacer = strings.NewReplacer("-", "_")

// Viper keys, shared with the cobra flag names.
const (
	KeySubdirs   = "subdirs"
	KeyAlgorithm = "algorithm"
	KeyThreads   = "threads"
	KeyLogLevel  = "log-level"
	KeyExclude   = "exclude"
	KeyStateDir  = "state-dir"
	KeyExternal  = "external"
)

// NewViper returns a viper instance reading SUMKEEPER_* variables and,
// when present, a sumkeeper.yaml in the working directory or configFile.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	v.SetDefault(KeyAlgorithm, "sha256")
	v.SetDefault(KeyThreads, 0)
	v.SetDefault(KeyLogLevel, "quiet")
	v.SetDefault(KeyStateDir, ".")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("sumkeeper")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load builds validated Options for folder from v.
func Load(v *viper.Viper, folder string) (Options, error) {
	level, err := ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Folder:    folder,
		Subdirs:   v.GetBool(KeySubdirs),
		Algorithm: v.GetString(KeyAlgorithm),
		Threads:   v.GetInt(KeyThreads),
		Level:     level,
		Excludes:  v.GetStringSlice(KeyExclude),
		StateDir:  v.GetString(KeyStateDir),
		External:  v.GetBool(KeyExternal),
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
