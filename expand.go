package popfilter

import (
	"os/user"
	"path"
	"path/filepath"
	"strings"
)

// ExpandHome expands ~ to its proper path, where appropriate. If the current
// user cannot be determined, path is returned unchanged.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			return path
		}
		path = filepath.Join(usr.HomeDir, (path)[2:])
	}

	return path
}

// JoinPath joins rel onto base. Absolute, home-relative and gs:// values of rel
// are returned as-is. gs:// bases are joined with URL path semantics so that
// the scheme's double slash survives.
func JoinPath(base, rel string) string {
	if base == "" || filepath.IsAbs(rel) || strings.HasPrefix(rel, "~/") || IsGoogleStoragePath(rel) {
		return rel
	}

	if IsGoogleStoragePath(base) {
		return "gs://" + path.Join(strings.TrimPrefix(base, "gs://"), rel)
	}

	return filepath.Join(base, rel)
}
