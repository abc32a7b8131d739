// conll-prep reads CoNLL-2003 named entity recognition data, reports corpus statistics, and
// prepares the vocabularies, padded tensors and embedding matrix used to train a tagger.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gomlx/go-conll"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}
	defer klog.Flush()
	if err := newApp(ui).Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(ui.Err, "conll-prep: %v\n", err)
		klog.Flush()
		os.Exit(1)
	}
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "conll-prep",
		Usage:     "prepare CoNLL-2003 NER data for sequence tagging models",
		Version:   conll.Version,
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "verbosity",
				Aliases: []string{"v"},
				Usage:   "log verbosity level: 1 for progress, 2 for debugging",
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogging(c.Int("verbosity"))
		},
		Commands: []*cli.Command{
			statsCommand(ui),
			prepareCommand(ui),
			fetchCommand(ui),
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintf(ui.Out, "conll-prep %s\n", conll.Version)
					return err
				},
			},
		},
	}
}

// setupLogging configures klog, which otherwise is configured from the standard flag package.
func setupLogging(verbosity int) error {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	if err := fs.Set("v", strconv.Itoa(verbosity)); err != nil {
		return err
	}
	return fs.Set("logtostderr", "true")
}
