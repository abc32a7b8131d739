package pipeline

import (
	"context"

	"github.com/gomlx/go-conll/config"
	"github.com/gomlx/go-conll/hub"
	"github.com/pkg/errors"
)

// localPaths of the corpus splits and the vector table. Empty means not configured.
type localPaths struct {
	train, validation, test, embeddings string
}

// NewRepo creates the hub.Repo configured in cfg.Hub for the given repository id.
func NewRepo(cfg *config.HubConfig, id string, repoType hub.RepoType) *hub.Repo {
	repo := hub.New(id).WithType(repoType).WithRevision(cfg.Revision).WithCacheDir(cfg.CacheDir)
	if cfg.Token != "" {
		repo = repo.WithAuth(cfg.Token)
	}
	repo.MaxParallelDownload = cfg.MaxParallel
	return repo
}

// resolve returns the local paths of the configured files, downloading the ones hosted in
// HuggingFace Hub.
func resolve(ctx context.Context, cfg *config.Config) (localPaths, error) {
	paths := localPaths{
		train:      cfg.Corpus.Train,
		validation: cfg.Corpus.Validation,
		test:       cfg.Corpus.Test,
		embeddings: cfg.Embeddings.Path,
	}
	if cfg.Hub.Repo != "" {
		repoType, err := hub.ParseRepoType(cfg.Hub.Type)
		if err != nil {
			return paths, errors.WithMessage(err, "hub.type")
		}
		repo := NewRepo(&cfg.Hub, cfg.Hub.Repo, repoType)
		targets := []*string{&paths.train, &paths.validation, &paths.test}
		if cfg.Hub.EmbeddingsRepo == "" {
			targets = append(targets, &paths.embeddings)
		}
		if err := download(ctx, repo, targets); err != nil {
			return paths, err
		}
	}
	if cfg.Hub.EmbeddingsRepo != "" && paths.embeddings != "" {
		repo := NewRepo(&cfg.Hub, cfg.Hub.EmbeddingsRepo, hub.RepoTypeModel)
		if err := download(ctx, repo, []*string{&paths.embeddings}); err != nil {
			return paths, err
		}
	}
	return paths, nil
}

// download the non-empty file names pointed by targets, and replaces them by their local paths.
func download(ctx context.Context, repo *hub.Repo, targets []*string) error {
	var names []string
	var pending []*string
	for _, t := range targets {
		if *t != "" {
			names = append(names, *t)
			pending = append(pending, t)
		}
	}
	if len(names) == 0 {
		return nil
	}
	localPaths, err := repo.DownloadFiles(ctx, names...)
	if err != nil {
		return err
	}
	for ii, t := range pending {
		*t = localPaths[ii]
	}
	return nil
}
