package advisor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// LoadGitHubToken resolves the GitHub OAuth token the copilot provider
// exchanges for an API session. GITHUB_TOKEN wins; otherwise the Copilot
// IDE config files are scanned (hosts.json, then apps.json).
func LoadGitHubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}

	for _, name := range []string{"hosts.json", "apps.json"} {
		token, err := copilotToken(filepath.Join(dir, "github-copilot", name))
		if err == nil && token != "" {
			return token, nil
		}
	}

	return "", errors.New("no GitHub token: set GITHUB_TOKEN or sign in to GitHub Copilot in your editor")
}

// userConfigDir honors XDG_CONFIG_HOME before the per-OS defaults.
func userConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return local, nil
		}
		return filepath.Join(home, "AppData", "Local"), nil
	}
	return filepath.Join(home, ".config"), nil
}

// copilotToken pulls the oauth_token out of one Copilot config file. The
// file maps host entries to objects; any entry keyed on github.com may
// carry the token.
func copilotToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var hosts map[string]map[string]any
	if err := json.Unmarshal(data, &hosts); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}

	for host, entry := range hosts {
		if !strings.Contains(host, "github.com") {
			continue
		}
		if token, ok := entry["oauth_token"].(string); ok {
			return token, nil
		}
	}
	return "", fmt.Errorf("no oauth_token in %s", path)
}
