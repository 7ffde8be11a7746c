package gearbox

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const urlKey = "sqlalchemy.url"

// Config points an engine at the application config file and at the
// migration environment.
type Config struct {
	// File is the INI file holding the database URL.
	File string

	// Section is the INI section the URL is read from.
	Section string

	// ScriptLocation is the migration environment directory.
	ScriptLocation string
}

// VersionsDir returns the directory migration files are kept in.
func (c Config) VersionsDir() string {
	return filepath.Join(c.ScriptLocation, "versions")
}

// Settings are the values an engine reads from the config file.
type Settings struct {
	// URL is the SQLAlchemy style database URL, e.g. postgresql://user@host/db.
	URL string
}

// LoadSettings reads the database URL from the config file.
//
// The placeholder %(here)s expands to the absolute directory of the config file.
func LoadSettings(c Config) (*Settings, error) {
	here, err := filepath.Abs(filepath.Dir(c.File))
	if err != nil {
		return nil, &ConfigError{c.File, errors.Wrap(err, "failed to resolve config directory")}
	}

	// inline comments are not stripped from values
	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, c.File)
	if err != nil {
		return nil, &ConfigError{c.File, errors.Wrap(err, "failed to read config file")}
	}

	section, err := file.GetSection(c.Section)
	if err != nil {
		return nil, &ConfigError{c.File, errors.Errorf("no section [%s]", c.Section)}
	}
	key, err := section.GetKey(urlKey)
	if err != nil {
		return nil, &ConfigError{c.File, errors.Errorf("no %s in section [%s]", urlKey, c.Section)}
	}

	url := strings.ReplaceAll(strings.TrimSpace(key.String()), "%(here)s", filepath.ToSlash(here))
	if url == "" {
		return nil, &ConfigError{c.File, errors.Errorf("empty %s in section [%s]", urlKey, c.Section)}
	}

	return &Settings{URL: url}, nil
}
