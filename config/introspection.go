package config

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault         ConfigSource = "default"
	SourceUser            ConfigSource = "user"            // ~/.rangelink/config.toml
	SourceWorkspace       ConfigSource = "workspace"       // rangelink.toml at the repository root
	SourceWorkspaceFolder ConfigSource = "workspaceFolder" // .rangelink.toml in the working directory
	SourceEnvironment     ConfigSource = "environment"     // RANGELINK_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource `json:"source"`
	Path   string       `json:"path,omitempty"` // File path or environment variable name
}

var defaultSource = SourceInfo{Source: SourceDefault, Path: "built-in default"}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
	Rejected   string       `json:"rejected,omitempty"` // Configured value that failed validation
}

// Settings returns every key with its effective value and origin, in Keys order
func (c *Config) Settings() []SettingInfo {
	settings := make([]SettingInfo, 0, len(Keys))
	for _, key := range Keys {
		value, _ := c.Get(key)
		si := c.Source(key)
		setting := SettingInfo{
			Key:        key,
			Value:      value,
			Source:     si.Source,
			SourcePath: si.Path,
		}
		if field, ok := fieldForKey(key); ok && len(c.DelimiterErrors) > 0 {
			if raw := c.RawDelimiters.Get(field); raw != nil {
				setting.Rejected = *raw
			}
		}
		settings = append(settings, setting)
	}
	return settings
}

// Summary counts settings by source
func (c *Config) Summary() map[ConfigSource]int {
	summary := map[ConfigSource]int{}
	for _, s := range c.Settings() {
		summary[s.Source]++
	}
	return summary
}
