package commands

import (
	"io"
	"os"

	"github.com/teranos/rangelink/config"
	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/internal/workspace"
)

// ConfigFile, when set by the root --config flag, replaces the layered lookup
var ConfigFile string

func loadConfig() (*config.Config, error) {
	if ConfigFile != "" {
		cfg, err := config.LoadFromFile(ConfigFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load config %s", ConfigFile)
		}
		return cfg, nil
	}
	cfg, err := config.Load(config.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}

// dirs holds the working directory and the workspace root above it
type dirs struct {
	cwd  string
	root string
}

func currentDirs() (dirs, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return dirs{}, errors.Wrap(err, "failed to determine working directory")
	}
	return dirs{cwd: cwd, root: workspace.RootOrDir(cwd)}, nil
}

// readInput reads the named file, or stdin for "-" or no name
func readInput(stdin io.Reader, name string) (string, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", name)
	}
	return string(data), nil
}
