package directive

import "fmt"

// BuildTarget is the browser flavor a build is produced for. It is resolved
// once at pipeline start and only consulted by manifest selection and
// manifest include filters.
type BuildTarget string

const (
	TargetChrome  BuildTarget = "chrome"
	TargetFirefox BuildTarget = "firefox"
)

// ResolveTarget parses an environment- or flag-provided target selector.
// An empty value selects Chrome.
func ResolveTarget(v string) (BuildTarget, error) {
	switch BuildTarget(v) {
	case "":
		return TargetChrome, nil
	case TargetChrome:
		return TargetChrome, nil
	case TargetFirefox:
		return TargetFirefox, nil
	}
	return "", fmt.Errorf("unknown build target %q (expected %q or %q)", v, TargetChrome, TargetFirefox)
}
