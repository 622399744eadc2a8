// Package paths resolves the locations tasking reads and writes.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amonks/tasking/task"
)

const (
	// SaveFileName is the save file placed beside the executable.
	SaveFileName = task.SaveFileName

	// LocalConfigFileName is the config file placed beside the executable.
	LocalConfigFileName = "tasking.toml"
)

var executable = os.Executable

// HomeDir returns the user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// ExecutableDir returns the directory holding the running executable,
// with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// DefaultSaveFile returns the save file beside the executable. If the
// executable directory cannot be determined the bare file name is returned,
// which resolves against the working directory.
func DefaultSaveFile() string {
	dir, err := ExecutableDir()
	if err != nil {
		return SaveFileName
	}
	return filepath.Join(dir, SaveFileName)
}

// LocalConfigFile returns the config file beside the executable, or "" when
// the executable directory is unknown.
func LocalConfigFile() string {
	dir, err := ExecutableDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, LocalConfigFileName)
}

// GlobalConfigFile returns the per-user config file.
func GlobalConfigFile() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tasking", "config.toml"), nil
}
