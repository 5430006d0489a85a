package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "QSYNTH"

type Settings struct {
	DataDir           string   `mapstructure:"data_dir"`
	BusinessUnitDir   string   `mapstructure:"business_unit_dir"`
	OutputDir         string   `mapstructure:"output_dir"`
	Seed              uint64   `mapstructure:"seed"`
	Baseline          string   `mapstructure:"baseline"`
	Targets           []string `mapstructure:"targets"`
	PeriodsFile       string   `mapstructure:"periods_file"`
	EnterpriseRules   string   `mapstructure:"enterprise_rules"`
	BusinessUnitRules string   `mapstructure:"business_unit_rules"`
	LogLevel          string   `mapstructure:"log_level"`
	S3                S3       `mapstructure:"s3"`
	Server            Server   `mapstructure:"server"`
}

type S3 struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// flagKeys maps command-line flags to their settings keys.
var flagKeys = map[string]string{
	"data-dir":            "data_dir",
	"business-unit-dir":   "business_unit_dir",
	"output-dir":          "output_dir",
	"seed":                "seed",
	"baseline":            "baseline",
	"target":              "targets",
	"periods":             "periods_file",
	"enterprise-rules":    "enterprise_rules",
	"business-unit-rules": "business_unit_rules",
	"log-level":           "log_level",
	"s3-bucket":           "s3.bucket",
	"s3-prefix":           "s3.prefix",
	"s3-region":           "s3.region",
	"host":                "server.host",
	"port":                "server.port",
}

func setDefaults(v *viper.Viper) {
	// every key needs a default for AutomaticEnv to reach it through Unmarshal
	for _, key := range flagKeys {
		v.SetDefault(key, "")
	}
	v.SetDefault("targets", []string{})
	v.SetDefault("data_dir", "data")
	v.SetDefault("seed", 42)
	v.SetDefault("log_level", "info")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
}

// Load merges defaults, an optional config file, QSYNTH_* environment
// variables and any flags that were explicitly set.
func Load(configPath string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if s.BusinessUnitDir == "" {
		s.BusinessUnitDir = filepath.Join(s.DataDir, "business-units")
	}
	return &s, nil
}

// EnterpriseOutputDir is where enterprise snapshots are written.
func (s *Settings) EnterpriseOutputDir() string {
	if s.OutputDir != "" {
		return s.OutputDir
	}
	return s.DataDir
}

// BusinessUnitOutputDir is where business-unit snapshots are written.
func (s *Settings) BusinessUnitOutputDir() string {
	if s.OutputDir != "" {
		return filepath.Join(s.OutputDir, "business-units")
	}
	return s.BusinessUnitDir
}

// RegisterFlags declares the generator flags. Only flags set on the command
// line override the config file and environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("data-dir", "data", "directory holding the enterprise baseline")
	fs.String("business-unit-dir", "", "directory holding business-unit baselines (default <data-dir>/business-units)")
	fs.String("output-dir", "", "directory for generated snapshots (default the input directory)")
	fs.Uint64("seed", 42, "random seed")
	fs.String("baseline", "", "baseline period label")
	fs.StringSlice("target", nil, "target period label, repeatable")
	fs.String("periods", "", "INI file overriding the period calendar")
	fs.String("enterprise-rules", "", "YAML file overriding the enterprise rule table")
	fs.String("business-unit-rules", "", "YAML file overriding the business-unit rule table")
	fs.String("s3-bucket", "", "publish snapshots to this S3 bucket instead of the filesystem")
	fs.String("s3-prefix", "", "key prefix inside the S3 bucket")
	fs.String("s3-region", "", "AWS region for the S3 bucket")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
}

func RegisterServerFlags(fs *pflag.FlagSet) {
	fs.String("host", "localhost", "preview server host")
	fs.String("port", "8080", "preview server port")
}
