package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/internal/workspace"
	"github.com/teranos/rangelink/link"
	"github.com/teranos/rangelink/logger"
)

// Config file names per layer
const (
	UserDirName             = ".rangelink"
	UserFileName            = "config.toml"
	WorkspaceFileName       = "rangelink.toml"
	WorkspaceFolderFileName = ".rangelink.toml"
)

// Options locates the configuration layers. Zero values use the current
// user's home directory and working directory.
type Options struct {
	HomeDir string
	WorkDir string
}

// Layer is one configuration file and the source it represents
type Layer struct {
	Source ConfigSource
	Path   string
}

func (o Options) resolve() Options {
	if o.HomeDir == "" {
		o.HomeDir, _ = os.UserHomeDir()
	}
	if o.WorkDir == "" {
		o.WorkDir, _ = os.Getwd()
	}
	return o
}

// UserConfigPath returns ~/.rangelink/config.toml
func (o Options) UserConfigPath() string {
	o = o.resolve()
	if o.HomeDir == "" {
		return ""
	}
	return filepath.Join(o.HomeDir, UserDirName, UserFileName)
}

// Layers returns the file layers lowest precedence first. Files need not exist.
func (o Options) Layers() []Layer {
	o = o.resolve()
	var layers []Layer
	if p := o.UserConfigPath(); p != "" {
		layers = append(layers, Layer{Source: SourceUser, Path: p})
	}
	if o.WorkDir != "" {
		if root, ok := workspace.Root(o.WorkDir); ok {
			layers = append(layers, Layer{Source: SourceWorkspace, Path: filepath.Join(root, WorkspaceFileName)})
		}
		layers = append(layers, Layer{Source: SourceWorkspaceFolder, Path: filepath.Join(o.WorkDir, WorkspaceFolderFileName)})
	}
	return layers
}

// Load reads every layer and the environment into a Config
func Load(opts Options) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	sources := make(map[string]SourceInfo)
	files := mergeConfigFiles(v, opts.Layers(), sources)
	mergeEnv(v, sources)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Sources = sources
	cfg.Files = files

	cfg.RawDelimiters = rawDelimiters(v)
	result := link.ValidateDelimiters(cfg.RawDelimiters)
	cfg.Delimiters = result.Config
	cfg.DelimiterErrors = result.Errors
	logDelimiterResult(&cfg, result)

	return &cfg, nil
}

// LoadFromFile loads configuration from a single file over the defaults,
// without environment overrides
func LoadFromFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	v := viper.New()
	SetDefaults(v)
	sources := make(map[string]SourceInfo)
	files := mergeConfigFiles(v, []Layer{{Source: SourceUser, Path: configPath}}, sources)
	if len(files) == 0 {
		return nil, errors.Newf("failed to parse config file %s", configPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}
	cfg.Sources = sources
	cfg.Files = files
	cfg.RawDelimiters = rawDelimiters(v)
	result := link.ValidateDelimiters(cfg.RawDelimiters)
	cfg.Delimiters = result.Config
	cfg.DelimiterErrors = result.Errors
	return &cfg, nil
}

// mergeConfigFiles merges existing layer files key by key in precedence
// order and records the source of every key set. Returns the files read.
func mergeConfigFiles(v *viper.Viper, layers []Layer, sources map[string]SourceInfo) []string {
	var files []string
	for _, layer := range layers {
		if _, err := os.Stat(layer.Path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(layer.Path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			logger.Warnw("Skipping unreadable config file",
				logger.FieldFile, layer.Path,
				logger.FieldSource, layer.Source,
				logger.FieldError, err)
			continue
		}

		for _, key := range tempViper.AllKeys() {
			v.Set(key, tempViper.Get(key))
			sources[key] = SourceInfo{Source: layer.Source, Path: layer.Path}
		}
		files = append(files, layer.Path)
	}
	return files
}

// mergeEnv applies RANGELINK_* overrides for the known keys
func mergeEnv(v *viper.Viper, sources map[string]SourceInfo) {
	for _, key := range Keys {
		envKey := EnvKey(key)
		if value, ok := os.LookupEnv(envKey); ok {
			v.Set(key, value)
			sources[key] = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}
	}
}

// rawDelimiters collects the delimiter fields some layer actually set
func rawDelimiters(v *viper.Viper) link.RawDelimiters {
	get := func(field link.DelimiterField) *string {
		key := DelimiterKey(field)
		if !v.IsSet(key) {
			return nil
		}
		s := v.GetString(key)
		return &s
	}
	return link.RawDelimiters{
		Line:     get(link.FieldLine),
		Position: get(link.FieldPosition),
		Hash:     get(link.FieldHash),
		Range:    get(link.FieldRange),
	}
}

// logDelimiterResult is silent when nothing was configured and warns when a
// configured set was rejected
func logDelimiterResult(cfg *Config, result link.ValidationResult) {
	if cfg.RawDelimiters.IsEmpty() {
		logger.Debugw("No delimiters configured, using defaults")
		return
	}
	if result.Valid() {
		logger.Debugw("Delimiters loaded",
			logger.FieldDelimiter, cfg.Delimiters,
			logger.FieldSource, delimiterSources(cfg))
		return
	}

	codes := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		codes[i] = string(e.Code)
	}
	logger.Warnw("Invalid delimiter configuration, using defaults",
		logger.FieldErrorCode, strings.Join(codes, ","),
		logger.FieldSource, delimiterSources(cfg),
		logger.FieldError, result.Err())
}

// delimiterSources renders field=source pairs for the configured fields
func delimiterSources(cfg *Config) string {
	var parts []string
	for _, field := range link.DelimiterFields {
		if si, ok := cfg.Sources[DelimiterKey(field)]; ok {
			parts = append(parts, string(field)+"="+string(si.Source))
		}
	}
	return strings.Join(parts, " ")
}
