// Package config reads the optional settings file. Key bindings are
// deliberately not configurable; the file only carries cosmetic knobs.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/wellle/fzf/internal/util"
	"github.com/wellle/fzf/ui"
)

// DefaultPrompt is the default prompt string shown in the query line.
const DefaultPrompt = ">"

// Config holds all the data that can be configured in the
// external configuration file
type Config struct {
	Style       ui.StyleSet `json:"Style" yaml:"Style"`
	Prompt      string      `json:"Prompt" yaml:"Prompt"`
	Use256Color bool        `json:"Use256Color" yaml:"Use256Color"`
	Black       bool        `json:"Black" yaml:"Black"`
	Mouse       *bool       `json:"Mouse" yaml:"Mouse"`
}

var homedirFunc = util.Homedir

// Init initializes the Config with default values
func (c *Config) Init() error {
	c.Style.Init()
	c.Prompt = DefaultPrompt
	return nil
}

// ReadFilename reads the config from the given file, and
// does the appropriate processing, if any
func (c *Config) ReadFilename(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open file %s", filename)
	}
	defer f.Close()

	switch ext := filepath.Ext(filename); ext {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(c); err != nil {
			return errors.Wrap(err, "failed to decode YAML")
		}
	default:
		if err := json.NewDecoder(f).Decode(c); err != nil {
			return errors.Wrap(err, "failed to decode JSON")
		}
	}

	return nil
}

// Locator locates a config file in a given directory.
type Locator interface {
	Locate(string) (string, error)
}

// LocatorFunc is a function that implements Locator.
type LocatorFunc func(string) (string, error)

// Locate calls the underlying function.
func (f LocatorFunc) Locate(dir string) (string, error) {
	return f(dir)
}

var configFilenames = []string{"config.json", "config.yaml", "config.yml"}

// DefaultLocator searches for a config file with one of the known
// filenames (config.json, config.yaml, config.yml) in the given directory.
var DefaultLocator = LocatorFunc(func(dir string) (string, error) {
	for _, basename := range configFilenames {
		file := filepath.Join(dir, basename)
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", errors.Errorf("config file not found in %s", dir)
})

// LocateRcfile attempts to find the config file following the XDG base
// directory rules:
//
//	$XDG_CONFIG_HOME/fzf/config.{json,yaml,yml}
//	$XDG_CONFIG_DIR/fzf/config.{json,yaml,yml} per $XDG_CONFIG_DIRS
//	~/.fzf/config.{json,yaml,yml}
func LocateRcfile(locator Locator) (string, error) {
	home, uErr := homedirFunc()

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		if file, err := locator.Locate(filepath.Join(dir, "fzf")); err == nil {
			return file, nil
		}
	} else if uErr == nil {
		if file, err := locator.Locate(filepath.Join(home, ".config", "fzf")); err == nil {
			return file, nil
		}
	}

	if dirs := os.Getenv("XDG_CONFIG_DIRS"); dirs != "" {
		for _, dir := range strings.Split(dirs, string(filepath.ListSeparator)) {
			if file, err := locator.Locate(filepath.Join(dir, "fzf")); err == nil {
				return file, nil
			}
		}
	}

	if uErr == nil {
		if file, err := locator.Locate(filepath.Join(home, ".fzf")); err == nil {
			return file, nil
		}
	}

	return "", errors.New("config file not found")
}
