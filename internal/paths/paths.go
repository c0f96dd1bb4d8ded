// Package paths resolves the directories onto works out of: the config
// dir (config.yaml), the data dir (sqlite database), and the machines
// dir (YAML machine overrides). Each follows the same precedence:
// explicit flag, config.yaml value, environment override, then a
// platform or CWD default.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names used when no override is active.
const (
	DefaultConfigDirName = ".onto"
	DefaultDataDirName   = ".onto-db"
)

// MachinesDirName is the config-dir subdirectory holding machine
// definition files.
const MachinesDirName = "machines"

// Environment variable overrides.
const (
	EnvConfigDir   = "ONTO_CONFIG_DIR"
	EnvDataDir     = "ONTO_DATA_DIR"
	EnvMachinesDir = "ONTO_MACHINES_DIR"
)

// appDir returns the platform convention for per-app directories.
// linuxEnv and linuxFallback express the XDG split between config and
// data; macOS and Windows make no such distinction and use
// os.UserConfigDir for both.
func appDir(linuxEnv string, linuxFallback []string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "onto"), nil
	}
	if xdg := os.Getenv(linuxEnv); xdg != "" {
		return filepath.Join(xdg, "onto"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, linuxFallback...)...), nil
}

// DefaultConfigDir returns the platform default configuration
// directory: $XDG_CONFIG_HOME/onto (fallback ~/.config/onto) on Linux,
// ~/Library/Application Support/onto on macOS, %APPDATA%/onto on
// Windows.
func DefaultConfigDir() (string, error) {
	return appDir("XDG_CONFIG_HOME", []string{".config", "onto"})
}

// DefaultDataDir returns the platform default data directory:
// $XDG_DATA_HOME/onto (fallback ~/.local/share/onto) on Linux, the
// config location elsewhere.
func DefaultDataDir() (string, error) {
	return appDir("XDG_DATA_HOME", []string{".local", "share", "onto"})
}

// ResolveConfigDir applies flag > ONTO_CONFIG_DIR > platform default.
// Results from flag and env are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config.yaml data_dir > ONTO_DATA_DIR >
// $(CWD)/.onto-db. The CWD default keeps a bare `onto init` fully
// local to the working directory.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveMachinesDir applies config.yaml machines_dir >
// ONTO_MACHINES_DIR > <configDir>/machines. The directory is allowed
// to not exist; machine loading treats an absent dir as "no overrides".
func ResolveMachinesDir(configValue, configDir string) (string, error) {
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvMachinesDir); env != "" {
		return filepath.Abs(env)
	}
	return filepath.Join(configDir, MachinesDirName), nil
}
