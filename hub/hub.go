// Package hub downloads corpus splits and word vector tables from HuggingFace Hub.
//
// Files are stored in a cache with the same layout as the huggingface_hub python library
// (usually under "~/.cache/huggingface/hub"), so files already fetched by python programs are
// reused:
//
//	<cacheDir>/<type>--<owner>--<name>/snapshots/<revision>/<file>
package hub

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/gomlx/go-conll"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SessionId is unique and always created anew at the start of the program, and used during the life of the program.
var SessionId string

// panicf generates an error message and panics with it, in one function.
func panicf(format string, args ...any) {
	err := errors.Errorf(format, args...)
	panic(err)
}

func init() {
	sessionUUID, err := uuid.NewRandom()
	if err != nil {
		panicf("failed generating UUID for SessionId: %v", err)
	}
	SessionId = strings.ReplaceAll(sessionUUID.String(), "-", "")
}

var (
	// DefaultDirCreationPerm is used when creating new cache subdirectories.
	DefaultDirCreationPerm = os.FileMode(0755)

	// DefaultFileCreationPerm is used when creating files inside the cache subdirectories.
	DefaultFileCreationPerm = os.FileMode(0644)
)

// DefaultEndpoint of HuggingFace Hub. It can be changed with the HF_ENDPOINT environment variable.
const DefaultEndpoint = "https://huggingface.co"

func getEnvOr(key, defaultValue string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	return v
}

// DefaultCacheDir for HuggingFace Hub, same used by the python library.
//
// Its prefix is either `${XDG_CACHE_HOME}` if set, or `~/.cache` otherwise. Followed by `/huggingface/hub/`.
func DefaultCacheDir() string {
	cacheDir := getEnvOr("XDG_CACHE_HOME", path.Join(os.Getenv("HOME"), ".cache"))
	return path.Join(cacheDir, "huggingface", "hub")
}

// DefaultHttpUserAgent returns a user agent to use with HuggingFace Hub API.
func DefaultHttpUserAgent() string {
	return fmt.Sprintf("go-conll/%v; golang/%s; session_id/%s",
		conll.Version, runtime.Version(), SessionId)
}

// RepoIdSeparator is used to separate repository names parts when mapping to file names.
const RepoIdSeparator = "--"

// RepoType supported by HuggingFace-Hub
type RepoType string

const (
	RepoTypeDataset RepoType = "datasets"
	RepoTypeSpace   RepoType = "spaces"
	RepoTypeModel   RepoType = "models"
)

// ParseRepoType converts the plural names used in the hub URLs to a RepoType.
func ParseRepoType(s string) (RepoType, error) {
	switch RepoType(s) {
	case RepoTypeDataset, RepoTypeSpace, RepoTypeModel:
		return RepoType(s), nil
	}
	return "", errors.Errorf("unknown repository type %q", s)
}
