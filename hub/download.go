package hub

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"path"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/go-conll/internal/files"
	"github.com/gomlx/gomlx/ml/data/downloader"
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"k8s.io/klog/v2"
)

// DownloadFile downloads one file of the repository, or reuses the cached copy, and returns
// its local path. The returned path should be used for reading only: the cache may be shared
// with other programs.
func (r *Repo) DownloadFile(ctx context.Context, fileName string) (string, error) {
	paths, err := r.DownloadFiles(ctx, fileName)
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// DownloadFiles downloads the given files in parallel, at most MaxParallelDownload at a time,
// and returns their local paths in the same order.
func (r *Repo) DownloadFiles(ctx context.Context, fileNames ...string) ([]string, error) {
	localPaths := make([]string, len(fileNames))
	for ii, name := range fileNames {
		p, err := r.snapshotPath(name)
		if err != nil {
			return nil, err
		}
		localPaths[ii] = p
	}

	manager := downloader.New().MaxParallel(r.MaxParallelDownload).WithAuthToken(r.authToken)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	if r.MaxParallelDownload > 0 {
		p = p.WithMaxGoroutines(r.MaxParallelDownload)
	}
	for ii, name := range fileNames {
		url, filePath := r.FileURL(name), localPaths[ii]
		p.Go(func(ctx context.Context) error {
			err := lockedDownload(ctx, manager, url, filePath, r.authToken)
			if err != nil {
				return errors.WithMessagef(err, "while downloading %q from %s", name, r)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return localPaths, nil
}

// lockedDownload url to the given filePath, unless filePath already exists.
//
// It downloads the file to filePath+".downloading" and then atomically moves it to filePath.
// A filePath+".lock" file coordinates multiple processes trying to download the same file.
func lockedDownload(ctx context.Context, manager *downloader.Manager, url, filePath, authToken string) error {
	if files.Exists(filePath) {
		klog.V(2).Infof("using cached %q", filePath)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(path.Dir(filePath), DefaultDirCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory for file %q", filePath)
	}

	lockPath := filePath + ".lock"
	var mainErr error
	errLock := execOnFileLock(ctx, lockPath, func() {
		if files.Exists(filePath) {
			// Some concurrent other process (or goroutine) already downloaded the file.
			return
		}
		size, err := fileSize(ctx, url, authToken)
		if err != nil {
			mainErr = err
			return
		}
		tmpPath := filePath + ".downloading"
		if size >= 0 {
			klog.V(1).Infof("downloading %s (%s)", url, humanize.Bytes(uint64(size)))
		} else {
			klog.V(1).Infof("downloading %s", url)
		}
		mainErr = download(ctx, manager, url, tmpPath)
		if mainErr != nil {
			_ = os.Remove(tmpPath)
			return
		}
		if err := os.Rename(tmpPath, filePath); err != nil {
			mainErr = errors.Wrapf(err, "failed to move downloaded file %q to %q", tmpPath, filePath)
			return
		}
		if err := os.Remove(lockPath); err != nil {
			klog.Warningf("error removing lock file %q: %+v", lockPath, err)
		}
	})
	if mainErr != nil {
		return mainErr
	}
	if errLock != nil {
		return errors.WithMessagef(errLock, "while locking %q to download %q", lockPath, url)
	}
	return nil
}

// download url to filePath with the manager, and waits for it to finish or for ctx to be cancelled.
func download(ctx context.Context, manager *downloader.Manager, url, filePath string) error {
	done := make(chan error, 1)
	latch := manager.Download(url, filePath, func(downloaded, total int64, finished bool, err error) {
		if !finished {
			klog.V(2).Infof("%s: %s of %s", path.Base(filePath),
				humanize.Bytes(uint64(downloaded)), humanize.Bytes(uint64(total)))
			return
		}
		select {
		case done <- err:
		default:
		}
	})
	select {
	case err := <-done:
		if err != nil {
			return errors.WithMessagef(err, "while downloading %q to %q", url, filePath)
		}
		return nil
	case <-ctx.Done():
		latch.Trigger()
		return ctx.Err()
	}
}

// fileSize checks that url can be downloaded with a HEAD request and returns its size, or -1
// if the server doesn't report it.
func fileSize(ctx context.Context, url, authToken string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create request for %q", url)
	}
	req.Header.Set("User-Agent", DefaultHttpUserAgent())
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to request %q", url)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("request to %q failed with status %s", url, resp.Status)
	}
	return resp.ContentLength, nil
}

// execOnFileLock opens the lockPath file (or creates if it doesn't yet exist), locks it, and executes the function.
// If the lockPath is already locked, it polls with a 1 to 2 seconds period (randomly), until it acquires the lock
// or the context is cancelled.
func execOnFileLock(ctx context.Context, lockPath string, fn func()) (err error) {
	var f *os.File
	f, err = os.OpenFile(lockPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, DefaultFileCreationPerm)
	if err != nil {
		return errors.Wrapf(err, "while locking %q", lockPath)
	}
	defer func() {
		if err := f.Close(); err != nil {
			klog.Warningf("failed to close lock file %q", lockPath)
		}
	}()

	for {
		err = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) {
			return errors.Wrapf(err, "while locking %q", lockPath)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond * time.Duration(1000+rand.Intn(1000))):
		}
	}
	defer func() {
		if unlockErr := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); unlockErr != nil && err == nil {
			err = errors.Wrapf(unlockErr, "unlocking file %q", lockPath)
		}
	}()

	fn()
	return nil
}
