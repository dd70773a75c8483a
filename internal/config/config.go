package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	lumedb "github.com/wizardsarehere/LumeDB"
)

// Settings holds the store options that can be set from a config file or
// the environment. All fields are pointers so that merging can tell an
// explicit value apart from an absent one.
type Settings struct {
	Folder         *string   `json:"folder,omitempty" yaml:"folder,omitempty"`
	File           *string   `json:"file,omitempty" yaml:"file,omitempty"`
	Readable       *bool     `json:"readable,omitempty" yaml:"readable,omitempty"`
	NoBlankData    *bool     `json:"noBlankData,omitempty" yaml:"noBlankData,omitempty"`
	BackupInterval *Interval `json:"backupInterval,omitempty" yaml:"backupInterval,omitempty"`
	CheckUpdates   *bool     `json:"checkUpdates,omitempty" yaml:"checkUpdates,omitempty"`
	Watch          *bool     `json:"watch,omitempty" yaml:"watch,omitempty"`
	LogLevel       *string   `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

// fileNames are the config file names probed in each directory, in order.
var fileNames = []string{"lumedb.json", "lumedb.jsonc", "lumedb.yaml", "lumedb.yml"}

// Load loads settings from multiple sources (priority order, later wins):
// 1. Global config (~/.config/lumedb/)
// 2. Project config (the given directory)
// 3. LUMEDB_CONFIG file
// 4. Environment variables
func Load(directory string) (*Settings, error) {
	settings := &Settings{}

	// Track loaded files so the same file is not applied twice when the
	// project directory happens to be the global config directory.
	loaded := make(map[string]bool)

	loadOnce := func(path string) error {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil
		}
		if loaded[absPath] {
			return nil
		}
		fileSettings, err := loadFile(path)
		if err != nil {
			return err
		}
		if fileSettings != nil {
			merge(settings, fileSettings)
			loaded[absPath] = true
		}
		return nil
	}

	for _, name := range fileNames {
		if err := loadOnce(filepath.Join(GetPaths().Config, name)); err != nil {
			return nil, err
		}
	}

	if directory != "" {
		for _, name := range fileNames {
			if err := loadOnce(filepath.Join(directory, name)); err != nil {
				return nil, err
			}
		}
	}

	if configFile := os.Getenv("LUMEDB_CONFIG"); configFile != "" {
		if err := loadOnce(configFile); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// loadFile parses a single config file. A missing file is not an error and
// returns nil settings; a file that exists but cannot be parsed is.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	settings := &Settings{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), settings); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return settings, nil
}

// merge copies every set field of src over dst.
func merge(dst, src *Settings) {
	if src.Folder != nil {
		dst.Folder = src.Folder
	}
	if src.File != nil {
		dst.File = src.File
	}
	if src.Readable != nil {
		dst.Readable = src.Readable
	}
	if src.NoBlankData != nil {
		dst.NoBlankData = src.NoBlankData
	}
	if src.BackupInterval != nil {
		dst.BackupInterval = src.BackupInterval
	}
	if src.CheckUpdates != nil {
		dst.CheckUpdates = src.CheckUpdates
	}
	if src.Watch != nil {
		dst.Watch = src.Watch
	}
	if src.LogLevel != nil {
		dst.LogLevel = src.LogLevel
	}
}

func applyEnvOverrides(settings *Settings) error {
	if v := os.Getenv("LUMEDB_FOLDER"); v != "" {
		settings.Folder = &v
	}
	if v := os.Getenv("LUMEDB_FILE"); v != "" {
		settings.File = &v
	}
	if v := os.Getenv("LUMEDB_LOG_LEVEL"); v != "" {
		settings.LogLevel = &v
	}

	bools := map[string]**bool{
		"LUMEDB_READABLE":      &settings.Readable,
		"LUMEDB_NO_BLANK_DATA": &settings.NoBlankData,
		"LUMEDB_CHECK_UPDATES": &settings.CheckUpdates,
		"LUMEDB_WATCH":         &settings.Watch,
	}
	for key, target := range bools {
		if v := os.Getenv(key); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", key, err)
			}
			*target = &parsed
		}
	}

	if v := os.Getenv("LUMEDB_BACKUP_INTERVAL"); v != "" {
		d, err := parseInterval(v)
		if err != nil {
			return fmt.Errorf("failed to parse LUMEDB_BACKUP_INTERVAL: %w", err)
		}
		interval := Interval(d)
		settings.BackupInterval = &interval
	}

	return nil
}

// parseInterval accepts a Go duration string ("90s", "5m") or a bare
// number of minutes ("5", "0.5").
func parseInterval(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	minutes, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	return time.Duration(minutes * float64(time.Minute)), nil
}

// Apply writes every set field onto opts.
func (s *Settings) Apply(opts *lumedb.Options) {
	if s.Folder != nil {
		opts.Folder = *s.Folder
	}
	if s.File != nil {
		opts.File = *s.File
	}
	if s.Readable != nil {
		opts.Readable = *s.Readable
	}
	if s.NoBlankData != nil {
		opts.NoBlankData = *s.NoBlankData
	}
	if s.BackupInterval != nil {
		opts.BackupInterval = s.BackupInterval.Duration()
	}
	if s.CheckUpdates != nil {
		opts.CheckUpdates = *s.CheckUpdates
	}
	if s.Watch != nil {
		opts.Watch = *s.Watch
	}
}
