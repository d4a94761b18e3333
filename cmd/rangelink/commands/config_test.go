package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/rangelink/config"
	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/internal/workspace"
	"github.com/teranos/rangelink/link"
)

func TestRunConfigShow(t *testing.T) {
	cfg := defaultConfig()

	t.Run("toml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runConfigShow(&out, cfg, "toml"))

		var decoded config.Config
		require.NoError(t, toml.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, cfg.Delimiters, decoded.Delimiters)
		assert.Equal(t, cfg.Format, decoded.Format)
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runConfigShow(&out, cfg, "json"))

		var decoded config.Config
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, cfg.LSP, decoded.LSP)
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runConfigShow(&out, cfg, "yaml"))

		var decoded config.Config
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, cfg.Delimiters, decoded.Delimiters)
	})

	t.Run("unsupported", func(t *testing.T) {
		var out bytes.Buffer
		err := runConfigShow(&out, cfg, "ini")
		require.Error(t, err)
		assert.Contains(t, errors.FlattenHints(err), "toml")
	})
}

func TestRunConfigValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runConfigValidate(&out, defaultConfig()))
	assert.Contains(t, out.String(), "Configuration is valid")
}

func TestRunConfigValidate_DelimiterErrors(t *testing.T) {
	cfg := defaultConfig()
	line, position := "L", "l"
	result := link.ValidateDelimiters(link.RawDelimiters{Line: &line, Position: &position})
	require.False(t, result.Valid())
	cfg.DelimiterErrors = result.Errors

	var out bytes.Buffer
	err := runConfigValidate(&out, cfg)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidDelimitersError(err))
	assert.Contains(t, out.String(), string(link.CodeDelimiterNotUnique))
}

func TestRunConfigValidate_BadEnum(t *testing.T) {
	cfg := defaultConfig()
	cfg.Format.Quote = "backtick"

	var out bytes.Buffer
	require.Error(t, runConfigValidate(&out, cfg))
}

func TestRunConfigWhere(t *testing.T) {
	home, work := t.TempDir(), t.TempDir()
	opts := config.Options{HomeDir: home, WorkDir: work}
	userPath := opts.UserConfigPath()
	require.NoError(t, config.SetValue(userPath, config.KeyDelimiterHash, "$"))

	cfg, err := config.LoadFromFile(userPath)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runConfigWhere(&out, cfg, opts.Layers()))

	text := out.String()
	assert.Contains(t, text, userPath+" (found)")
	assert.Contains(t, text, filepath.Join(work, config.WorkspaceFolderFileName)+" (missing)")
	assert.Contains(t, text, "delimiters.hash = $")
	assert.Contains(t, text, "RANGELINK_* variables")
}

func TestScopePath(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	opts := config.Options{HomeDir: t.TempDir(), WorkDir: root}

	p, err := scopePath(opts, "user")
	require.NoError(t, err)
	assert.Equal(t, opts.UserConfigPath(), p)

	p, err = scopePath(opts, "workspaceFolder")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".rangelink.toml"), p)

	p, err = scopePath(opts, "workspace")
	require.NoError(t, err)
	assert.Equal(t, config.WorkspaceFileName, filepath.Base(p))

	_, err = scopePath(opts, "system")
	assert.Error(t, err)
}

func TestScopePath_WorkspaceOutsideRepository(t *testing.T) {
	work := t.TempDir()
	if _, ok := workspace.Root(work); ok {
		t.Skip("temp directory is inside a git repository")
	}
	_, err := scopePath(config.Options{HomeDir: t.TempDir(), WorkDir: work}, "workspace")
	require.Error(t, err)
	assert.NotEmpty(t, errors.FlattenHints(err))
}
