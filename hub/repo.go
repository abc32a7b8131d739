package hub

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gomlx/go-conll/internal/files"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Repo from which one wants to download files. Create it with New.
type Repo struct {
	// ID of the Repo includes owner/name. E.g.: "eriktks/conll2003".
	ID string

	hfEndpoint string
	repoType   RepoType
	revision   string
	authToken  string
	cacheDir   string

	// MaxParallelDownload indicates how many files to download at the same time. Default is 4.
	// If set to <= 0 all files are downloaded in parallel.
	MaxParallelDownload int
}

// New creates a reference to a HuggingFace dataset repository given its id.
//
// It uses DefaultCacheDir, shared with the python library. Use Repo.WithCacheDir to change it.
// Use Repo.WithType for model repositories (e.g. those holding word vectors).
func New(id string) *Repo {
	return &Repo{
		ID:                  id,
		repoType:            RepoTypeDataset,
		revision:            "main",
		hfEndpoint:          strings.TrimSuffix(getEnvOr("HF_ENDPOINT", DefaultEndpoint), "/"),
		cacheDir:            DefaultCacheDir(),
		authToken:           os.Getenv("HF_TOKEN"),
		MaxParallelDownload: 4,
	}
}

// WithAuth sets the authentication token to use during downloads.
//
// Setting it to empty ("") is the same as resetting and not using authentication.
func (r *Repo) WithAuth(authToken string) *Repo {
	r.authToken = authToken
	return r
}

// WithType sets the repository type to use during downloads.
func (r *Repo) WithType(repoType RepoType) *Repo {
	r.repoType = repoType
	return r
}

// WithEndpoint sets the HuggingFace endpoint to use.
func (r *Repo) WithEndpoint(endpoint string) *Repo {
	r.hfEndpoint = strings.TrimSuffix(endpoint, "/")
	return r
}

// WithRevision sets the branch, tag or commit-hash to download, defaults to "main".
func (r *Repo) WithRevision(revision string) *Repo {
	r.revision = revision
	return r
}

// WithCacheDir sets the cacheDir to the given directory. An empty dir is ignored.
func (r *Repo) WithCacheDir(cacheDir string) *Repo {
	if cacheDir == "" {
		return r
	}
	newCacheDir, err := files.ExpandPath(cacheDir)
	if err != nil {
		klog.Warningf("Failed to resolve directory for %q, keeping %q: %+v", cacheDir, r.cacheDir, err)
		return r
	}
	r.cacheDir = newCacheDir
	return r
}

// flatFolderName returns a serialized version of a hf.co repo name and type, safe for disk storage
// as a single non-nested folder.
func (r *Repo) flatFolderName() string {
	parts := []string{string(r.repoType)}
	parts = append(parts, strings.Split(r.ID, "/")...)
	return strings.Join(parts, RepoIdSeparator)
}

// FileURL returns the URL from which to download the file from HuggingFace.
func (r *Repo) FileURL(fileName string) string {
	if r.repoType == RepoTypeModel {
		return fmt.Sprintf("%s/%s/resolve/%s/%s", r.hfEndpoint, r.ID, r.revision, fileName)
	}
	return fmt.Sprintf("%s/%s/%s/resolve/%s/%s", r.hfEndpoint, r.repoType, r.ID, r.revision, fileName)
}

// snapshotPath returns where fileName is stored in the cache for the current revision.
func (r *Repo) snapshotPath(fileName string) (string, error) {
	rel, err := cleanRelativeFilePath(fileName)
	if err != nil {
		return "", errors.WithMessagef(err, "repo %q", r.ID)
	}
	return path.Join(r.cacheDir, r.flatFolderName(), "snapshots", r.revision, rel), nil
}

// cleanRelativeFilePath validates a file name within a repository and converts it to the local
// path separator.
func cleanRelativeFilePath(fileName string) (string, error) {
	if fileName == "" || path.IsAbs(fileName) || strings.Contains(fileName, "..") {
		return "", errors.Errorf("illegal file name %q -- it cannot be empty, an absolute path, nor contain \"..\"", fileName)
	}
	return filepath.FromSlash(path.Clean(fileName)), nil
}

// String implements fmt.Stringer.
func (r *Repo) String() string {
	return fmt.Sprintf("%s/%s@%s", r.repoType, r.ID, r.revision)
}
