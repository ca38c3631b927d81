package locator

import (
	"errors"
	"os"
	"path/filepath"
)

var errNoResourceDir = errors.New("resource directory unavailable")

// executable is swapped in tests.
var executable = os.Executable

func executableDir() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// resourceDir mirrors where an installed bundle keeps its resources:
// Contents/Resources inside a macOS .app, usr/lib/<app id> for Linux
// packages, and the executable's own directory everywhere else.
func resourceDir(goos, appID string) (string, error) {
	exeDir, err := executableDir()
	if err != nil {
		return "", err
	}

	switch goos {
	case "darwin":
		res := filepath.Join(filepath.Dir(exeDir), "Resources")
		if isDir(res) {
			return res, nil
		}
	case "linux":
		res := filepath.Join(filepath.Dir(exeDir), "lib", appID)
		if isDir(res) {
			return res, nil
		}
	}
	if exeDir == "" {
		return "", errNoResourceDir
	}
	return exeDir, nil
}

// siblingExecutableDir is the folder next to the resource dir where bundles
// place their executables.
func siblingExecutableDir(res, goos string) string {
	parent := filepath.Dir(res)
	if goos == "darwin" {
		return filepath.Join(parent, "MacOS")
	}
	return filepath.Join(parent, "bin")
}

// UserDataDir returns the per-user application data directory for appID.
func UserDataDir(goos, appID string) (string, error) {
	if goos == "linux" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appID), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appID), nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appID), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
