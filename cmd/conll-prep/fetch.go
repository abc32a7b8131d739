package main

import (
	"fmt"

	"github.com/gomlx/go-conll/config"
	"github.com/gomlx/go-conll/hub"
	"github.com/gomlx/go-conll/pipeline"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func fetchCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "download files from a HuggingFace Hub repository into the local cache",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "repo", Usage: "repository id, e.g. owner/conll2003", Required: true},
			&cli.StringFlag{Name: "type", Value: string(hub.RepoTypeDataset), Usage: "repository type: datasets, models or spaces"},
			&cli.StringFlag{Name: "revision", Value: "main", Usage: "branch, tag or commit hash"},
			&cli.StringFlag{Name: "cache-dir", Usage: "cache directory, defaults to the HuggingFace cache"},
			&cli.StringFlag{Name: "token", EnvVars: []string{"HF_TOKEN"}, Usage: "HuggingFace authentication token"},
			&cli.IntFlag{Name: "max-parallel", Value: 4, Usage: "maximum number of parallel downloads"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("fetch requires at least one file name")
			}
			repoType, err := hub.ParseRepoType(c.String("type"))
			if err != nil {
				return err
			}
			hubCfg := &config.HubConfig{
				Revision:    c.String("revision"),
				CacheDir:    c.String("cache-dir"),
				Token:       c.String("token"),
				MaxParallel: c.Int("max-parallel"),
			}
			repo := pipeline.NewRepo(hubCfg, c.String("repo"), repoType)
			paths, err := repo.DownloadFiles(c.Context, c.Args().Slice()...)
			if err != nil {
				return err
			}
			for _, p := range paths {
				_, _ = fmt.Fprintln(ui.Out, p)
			}
			return nil
		},
	}
}
