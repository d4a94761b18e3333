package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Default values for the non-delimiter settings. Delimiter defaults live in
// package link so that an unconfigured set is distinguishable from a
// configured one.
const (
	DefaultNotation     = "auto"
	DefaultPathFormat   = "relative"
	DefaultQuote        = "none"
	DefaultMaxDocuments = 100
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "RANGELINK"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFormatNotation, DefaultNotation)
	v.SetDefault(KeyFormatPathFormat, DefaultPathFormat)
	v.SetDefault(KeyFormatQuote, DefaultQuote)
	v.SetDefault(KeyLSPMaxDocuments, DefaultMaxDocuments)
}

// EnvKey returns the environment variable that overrides key,
// e.g. RANGELINK_DELIMITERS_LINE for delimiters.line
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
