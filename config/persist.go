package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/link"
	"github.com/teranos/rangelink/logger"
)

// backupCount is the number of rotating backups kept next to a config file
const backupCount = 3

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	// Rotate: .back3 is dropped, .back2 -> .back3, .back1 -> .back2
	oldest := backupPath(configPath, backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup",
			logger.FieldFile, oldest,
			logger.FieldError, err)
	}
	for i := backupCount - 1; i >= 1; i-- {
		from := backupPath(configPath, i)
		if _, err := os.Stat(from); err == nil {
			if err := os.Rename(from, backupPath(configPath, i+1)); err != nil {
				return errors.Wrapf(err, "failed to rotate .back%d to .back%d", i, i+1)
			}
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(backupPath(configPath, 1), content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

func backupPath(configPath string, n int) string {
	return configPath + ".back" + strconv.Itoa(n)
}

// loadOrInitialize reads a config file into a map, or returns an empty map
// when it does not exist yet
func loadOrInitialize(configPath string) (map[string]interface{}, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", filepath.Dir(configPath))
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return make(map[string]interface{}), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", configPath)
	}

	config := make(map[string]interface{})
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", configPath)
	}
	return config, nil
}

// save writes the config map with a backup and marks the write as our own
func save(config map[string]interface{}, configPath string) error {
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	globalWatcherMu.Lock()
	if globalWatcher != nil {
		globalWatcher.MarkOwnWrite()
	}
	globalWatcherMu.Unlock()

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}
	return nil
}

// SetValue validates key=value and persists it to configPath. Delimiter
// changes are checked together with the delimiters already in that file,
// so a write never leaves the file with a rejected set.
func SetValue(configPath, key, value string) error {
	if err := ValidateValue(key, value); err != nil {
		return err
	}

	config, err := loadOrInitialize(configPath)
	if err != nil {
		return err
	}

	section, name, _ := strings.Cut(key, ".")
	table, ok := config[section].(map[string]interface{})
	if !ok {
		table = make(map[string]interface{})
	}

	if key == KeyLSPMaxDocuments {
		n, _ := parseInt(value)
		table[name] = n
	} else {
		table[name] = value
	}
	config[section] = table

	if section == "delimiters" {
		if err := link.ValidateDelimiters(rawFromTable(table)).Err(); err != nil {
			return errors.Wrapf(err, "refusing to write %s", key)
		}
	}

	return save(config, configPath)
}

// SetUserValue persists key=value in the user config file
func SetUserValue(opts Options, key, value string) error {
	path := opts.UserConfigPath()
	if path == "" {
		return errors.New("could not determine home directory")
	}
	return SetValue(path, key, value)
}

// rawFromTable reads the delimiter candidates of a [delimiters] table
func rawFromTable(table map[string]interface{}) link.RawDelimiters {
	get := func(field link.DelimiterField) *string {
		v, ok := table[string(field)]
		if !ok {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return nil
		}
		return &s
	}
	return link.RawDelimiters{
		Line:     get(link.FieldLine),
		Position: get(link.FieldPosition),
		Hash:     get(link.FieldHash),
		Range:    get(link.FieldRange),
	}
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "%q is not an integer", s)
	}
	return n, nil
}
