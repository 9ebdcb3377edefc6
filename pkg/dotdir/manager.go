// Package dotdir locates the .namematch directory that holds config.toml,
// the default sqlite-vec index, the chat history and the log files.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the directory namematch keeps its state in.
const DirName = ".namematch"

// Manager resolves the .namematch directory. The zero value is ready to use.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute .namematch directory, creating it when missing.
// An explicit --config-dir wins. Otherwise ./.namematch is used when it
// already exists, and ~/.namematch when it does not.
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.resolve(overrideDir)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("creating namematch directory %s: %w", abs, err)
	}
	return abs, nil
}

// File returns the path of name (config.toml, namematch.db, chat.log, ...)
// inside the directory Target resolves.
func (m *Manager) File(overrideDir, name string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (m *Manager) resolve(overrideDir string) (string, error) {
	if overrideDir != "" {
		return overrideDir, nil
	}

	if dir, ok := localDir(); ok {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// localDir reports ./.namematch when it exists as a directory.
func localDir() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}

	dir := filepath.Join(cwd, DirName)
	info, err := os.Stat(dir)
	return dir, err == nil && info.IsDir()
}
