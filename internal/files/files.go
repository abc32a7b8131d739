// Package files implements path helpers shared by the configuration and the hub cache.
package files

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Exists returns true if file or directory exists.
func Exists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// ExpandPath expands environment variables and a leading "~" or "~user" in p, and cleans the
// result. An empty p is returned unchanged.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	p = os.ExpandEnv(p)
	if !strings.HasPrefix(p, "~") {
		return filepath.Clean(p), nil
	}

	rest := p[1:]
	userName, tail, _ := strings.Cut(rest, "/")
	var (
		usr *user.User
		err error
	)
	if userName == "" {
		usr, err = user.Current()
	} else {
		usr, err = user.Lookup(userName)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to lookup home directory for user in path %q", p)
	}
	return filepath.Join(usr.HomeDir, tail), nil
}
