package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the handful of colors the console encoder uses
type palette struct {
	time      string
	component string
	key       string
	fg        string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Everforest Dark (natural forest greens)
var everforest = palette{
	time:      "\x1b[38;5;107m",
	component: "\x1b[38;5;208m",
	key:       "\x1b[38;5;109m",
	fg:        "\x1b[38;5;223m",
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	time:      "\x1b[38;5;108m",
	component: "\x1b[38;5;214m",
	key:       "\x1b[38;5;109m",
	fg:        "\x1b[38;5;223m",
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

// Current active theme
var currentTheme = "everforest"

var bufferPool = buffer.NewPool()

// SetTheme configures the color scheme for log output
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  l.server  Document links published  uri=file:///a.md count=3"
type minimalEncoder struct {
	*zapcore.MapObjectEncoder // Accumulates fields added through With()
	color                     bool
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		color:            os.Getenv("NO_COLOR") == "",
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := &minimalEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		color:            enc.color,
	}
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := bufferPool.Get()

	final.AppendString(enc.paint(c.time, ent.Time.Format("15:04:05")))

	// Level: only show for WARN/ERROR and above
	if ent.Level > zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(enc.levelString(ent.Level, c))
	} else if ent.Level == zapcore.DebugLevel {
		final.AppendString("  ")
		final.AppendString("DEBUG")
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(c.component, abbreviateName(ent.LoggerName)))
	}

	final.AppendString("  ")
	final.AppendString(enc.paint(c.fg, ent.Message))

	all := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		all.Fields[k] = v
	}
	for _, field := range fields {
		field.AddTo(all)
	}
	if rendered := enc.renderFields(all.Fields, c); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// renderFields prints every field as key=value in key order.
// errorVerbose carries the full stack trace; JSON mode keeps it.
func (enc *minimalEncoder) renderFields(fields map[string]interface{}, c palette) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "errorVerbose" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, enc.paint(c.key, k)+"="+fmt.Sprint(fields[k]))
	}
	return strings.Join(parts, " ")
}

func (enc *minimalEncoder) levelString(level zapcore.Level, c palette) string {
	if !enc.color {
		return level.CapitalString()
	}
	if level == zapcore.WarnLevel {
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	}
	return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
}

func (enc *minimalEncoder) paint(color, text string) string {
	if !enc.color {
		return text
	}
	return color + text + colorReset
}

// abbreviateName shortens component names: config.watcher -> c.watcher
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}
