package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/go-conll/config"
	"github.com/gomlx/go-conll/pipeline"
	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
)

func prepareCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "prepare",
		Usage: "fit the vocabularies and pack all configured splits",
		Description: "Configuration is read from --config (or conll.yaml in the current directory) " +
			"and CONLL_ prefixed environment variables, e.g. CONLL_CORPUS_TRAIN.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "configuration file"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "do not show the progress bar"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			progress := uiprogress.New()
			var onStage pipeline.ProgressFunc
			if !c.Bool("quiet") {
				progress.SetOut(ui.Err)
				progress.Start()
				bar := progress.AddBar(len(pipeline.Stages(cfg)))
				bar.AppendCompleted()
				bar.PrependElapsed()
				onStage = func(string) { bar.Incr() }
				defer progress.Stop()
			}
			ds, err := pipeline.PrepareWithProgress(c.Context, cfg, onStage)
			if err != nil {
				return err
			}
			printDataset(ui, ds, cfg)
			return nil
		},
	}
}

func printDataset(ui UI, ds *pipeline.Dataset, cfg *config.Config) {
	_, _ = fmt.Fprintf(ui.Out, "words: %s (OOV id %d, padding id %d)\n",
		humanize.Comma(int64(ds.Words.Size())), ds.Words.OOVID(), ds.Words.PadID())
	_, _ = fmt.Fprintf(ui.Out, "tags:  %v\n", ds.Tags.Tags())
	for _, split := range []*pipeline.Split{ds.Train, ds.Validation, ds.Test} {
		if split == nil {
			continue
		}
		inputs, labels := split.Batch.Tensors()
		_, _ = fmt.Fprintf(ui.Out, "%-10s inputs %s, labels %s\n", split.Name+":", inputs.Shape(), labels.Shape())
	}
	if ds.Embeddings != nil {
		rows, cols := ds.Embeddings.Dims()
		_, _ = fmt.Fprintf(ui.Out, "embeddings: (%d, %d), %d words without vector (%.1f%% coverage)\n",
			rows, cols, ds.Coverage.Misses, 100*ds.Coverage.Ratio())
	}
	if cfg.Output.Vocabulary != "" {
		_, _ = fmt.Fprintf(ui.Out, "vocabularies saved to %s\n", cfg.Output.Vocabulary)
	}
}
