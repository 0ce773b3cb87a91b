// Package config resolves the daylio2md configuration directory and loads
// layered settings from config files, the environment, and flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user configuration directory.
const appName = "daylio2md"

// Dir returns the daylio2md configuration directory.
//
// Resolution:
//   - $DAYLIO2MD_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/daylio2md if set (respects XDG on any platform)
//   - %AppData%/daylio2md on Windows
//   - ~/.config/daylio2md on macOS and Linux
func Dir() string {
	if dir := os.Getenv("DAYLIO2MD_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}
