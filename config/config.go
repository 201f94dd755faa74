// Package config loads the optional mdecho config file. Every key has a
// documented default; a missing file, a missing key, or a malformed value
// falls back to the default for that key — startup never aborts over
// configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fibnas/mdecho"
	"github.com/spf13/viper"
)

// Tools holds the external lint/format commands. A command is the argv
// prefix; the runner appends the target path as the final argument.
type Tools struct {
	Lint              []string
	LintUseOpenFile   bool
	Format            []string
	FormatUseOpenFile bool
}

// Config is the resolved application configuration.
type Config struct {
	WorkingDir string
	Theme      mdecho.Theme
	Tools      Tools
	Ignore     []string // doublestar patterns excluded from the quick-open scan
}

// DefaultPath returns the standard config.toml location:
// $XDG_CONFIG_HOME/mdecho/config.toml, falling back to ~/.config/mdecho.
func DefaultPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "mdecho", "config.toml")
}

// applyDefaults seeds Viper with every key's default, centralizing the
// documented fallback values in one place.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("working_dir", "")
	v.SetDefault("theme.base", "dark")
	v.SetDefault("theme.background", "")
	v.SetDefault("theme.text", "")
	v.SetDefault("theme.accent", "")
	v.SetDefault("tools.lint", []string{"rumdl", "check"})
	v.SetDefault("tools.lint_use_open_file", false)
	v.SetDefault("tools.format", []string{"rumdl", "fmt"})
	v.SetDefault("tools.format_use_open_file", false)
	v.SetDefault("ignore", []string{".git/**", "node_modules/**"})
}

// Load reads the config file at path and resolves it against defaults.
// An unreadable or unparsable file yields the pure defaults.
func Load(path string) Config {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	applyDefaults(v)
	_ = v.ReadInConfig()
	return resolve(v)
}

// EnsureDefault writes a config file populated with defaults when none
// exists yet, so users have a template to edit. Existing files are never
// touched.
func EnsureDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigType("toml")
	applyDefaults(v)
	// SetDefault values are not written by SafeWriteConfig; promote them.
	for _, key := range v.AllKeys() {
		v.Set(key, v.Get(key))
	}
	return v.SafeWriteConfigAs(path)
}

func resolve(v *viper.Viper) Config {
	cfg := Config{
		WorkingDir: resolveWorkingDir(v.GetString("working_dir")),
		Theme: mdecho.Theme{
			Base:       resolveBase(v.GetString("theme.base")),
			Background: resolveColor(v.GetString("theme.background")),
			Text:       resolveColor(v.GetString("theme.text")),
			Accent:     resolveColor(v.GetString("theme.accent")),
		},
		Tools: Tools{
			Lint:              v.GetStringSlice("tools.lint"),
			LintUseOpenFile:   v.GetBool("tools.lint_use_open_file"),
			Format:            v.GetStringSlice("tools.format"),
			FormatUseOpenFile: v.GetBool("tools.format_use_open_file"),
		},
		Ignore: v.GetStringSlice("ignore"),
	}
	return cfg
}

// resolveWorkingDir accepts only existing directories, expanding a
// leading ~. Anything else falls back to the current directory.
func resolveWorkingDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

func resolveBase(base string) string {
	switch strings.ToLower(strings.TrimSpace(base)) {
	case "light":
		return "light"
	default:
		return "dark"
	}
}

// resolveColor keeps only valid hex colors; a malformed value falls back
// to "" (terminal default) rather than failing the load.
func resolveColor(value string) string {
	if value == "" {
		return ""
	}
	hex, ok := mdecho.NormalizeHex(value)
	if !ok {
		return ""
	}
	return hex
}
