// Package update checks released wext versions and works out how an
// installed binary should be upgraded.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const releasesURL = "https://api.github.com/repos/wextkit/cli/releases/latest"

// InstallMethod identifies how the running binary was installed.
type InstallMethod string

const (
	InstallMethodBrew    InstallMethod = "brew"
	InstallMethodGo      InstallMethod = "go"
	InstallMethodUnknown InstallMethod = "unknown"
)

type installMethodRule struct {
	method InstallMethod
	check  func(path string) bool
}

// installMethodRules returns detection rules in precedence order.
func installMethodRules() []installMethodRule {
	return []installMethodRule{
		{InstallMethodBrew, pathMatchesHomebrew},
		{InstallMethodGo, pathMatchesGo},
	}
}

func pathMatchesHomebrew(path string) bool {
	return strings.Contains(path, "/homebrew/") ||
		strings.Contains(path, "/Cellar/") ||
		strings.Contains(path, "/.linuxbrew/")
}

func pathMatchesGo(path string) bool {
	if gobin := os.Getenv("GOBIN"); gobin != "" && strings.HasPrefix(path, gobin) {
		return true
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" && strings.HasPrefix(path, filepath.Join(gopath, "bin")) {
		return true
	}
	return strings.Contains(path, "/go/bin/")
}

// DetectInstallMethod inspects the running executable's path. The resolved
// path is returned alongside for manual-upgrade instructions.
func DetectInstallMethod() (InstallMethod, string) {
	exe, err := os.Executable()
	if err != nil {
		return InstallMethodUnknown, ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	for _, r := range installMethodRules() {
		if r.check(exe) {
			return r.method, exe
		}
	}
	return InstallMethodUnknown, exe
}

// SuggestUpgradeCommand returns the shell command that upgrades the current
// installation.
func SuggestUpgradeCommand() string {
	method, _ := DetectInstallMethod()
	return suggestUpgradeCommandForMethod(method)
}

func suggestUpgradeCommandForMethod(method InstallMethod) string {
	switch method {
	case InstallMethodGo:
		return "go install github.com/wextkit/cli@latest"
	default:
		return "brew upgrade wextkit/tap/wext"
	}
}

// FetchLatest queries the latest released version tag and its release page.
func FetchLatest(ctx context.Context) (tag string, url string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("release lookup returned %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", "", err
	}
	if release.TagName == "" {
		return "", "", fmt.Errorf("release lookup returned no tag")
	}
	return release.TagName, release.HTMLURL, nil
}

// IsNewerVersion reports whether latest is strictly newer than current.
// Both values may carry a v prefix.
func IsNewerVersion(current, latest string) (bool, error) {
	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid current version %q: %w", current, err)
	}
	lat, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid latest version %q: %w", latest, err)
	}
	return lat.GreaterThan(cur), nil
}
