package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/go-conll/corpus"
	"github.com/gosuri/uiprogress"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func statsCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "print sentence length and tag statistics of CoNLL files",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "doc-start", Usage: "keep the -DOCSTART- document separators as tokens"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "do not show the progress bar"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("stats requires at least one file")
			}
			return statsAction(ui, c.Args().Slice(), c.Bool("doc-start"), !c.Bool("quiet"))
		},
	}
}

func statsAction(ui UI, paths []string, keepDocStart, showProgress bool) error {
	loader := corpus.NewLoader().WithDocStart(keepDocStart)
	all := make([]corpus.Stats, 0, len(paths))

	var bar *uiprogress.Bar
	progress := uiprogress.New()
	if showProgress {
		progress.SetOut(ui.Err)
		progress.Start()
		bar = progress.AddBar(len(paths))
		bar.AppendCompleted()
		bar.PrependElapsed()
	}
	for _, p := range paths {
		tokens, err := loader.ReadFile(p)
		if err != nil {
			if showProgress {
				progress.Stop()
			}
			return err
		}
		all = append(all, corpus.Describe(corpus.GroupSentences(tokens)))
		if showProgress {
			bar.Incr()
		}
	}
	if showProgress {
		progress.Stop()
	}

	for ii, p := range paths {
		printStats(ui.Out, p, all[ii])
	}
	return nil
}

func printStats(w io.Writer, name string, s corpus.Stats) {
	_, _ = fmt.Fprintf(w, "%s:\n", name)
	_, _ = fmt.Fprintf(w, "  sentences: %s\n", humanize.Comma(int64(s.NumSentences)))
	_, _ = fmt.Fprintf(w, "  tokens:    %s\n", humanize.Comma(int64(s.NumTokens)))
	_, _ = fmt.Fprintf(w, "  length:    mean %.1f, max %d\n", s.MeanLength, s.MaxLength)
	percentiles := make([]int, 0, len(s.Percentiles))
	for q := range s.Percentiles {
		percentiles = append(percentiles, q)
	}
	sort.Ints(percentiles)
	for _, q := range percentiles {
		_, _ = fmt.Fprintf(w, "  p%-2d:       %.0f\n", q, s.Percentiles[q])
	}
	tags := make([]string, 0, len(s.TagCounts))
	for tag := range s.TagCounts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		_, _ = fmt.Fprintf(w, "  %-10s %s\n", tag+":", humanize.Comma(int64(s.TagCounts[tag])))
	}
}
