package main

import (
	"fmt"
	"time"

	"github.com/LixenWraith/filelog"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var emitCtx = struct {
	configPath string
	dir        string
	level      string
	alias      string
	maxSize    int64
	rolling    time.Duration
	goroutines int
	records    int
	message    string
}{
	level:      "verbose",
	goroutines: 4,
	records:    1000,
	message:    "burst record",
}

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "write a burst of records from concurrent goroutines",
	Long: `
Writes --records records from each of --goroutines goroutines into a log
directory, rotating by --max-size and --rolling, then prints where the
records went.
`,
	Args: cobra.NoArgs,
	RunE: runEmit,
}

func init() {
	f := emitCmd.Flags()
	f.StringVar(&emitCtx.configPath, "config", "", "TOML configuration file, flags override it")
	f.StringVar(&emitCtx.dir, "dir", "", "log directory (default: user cache directory)")
	f.StringVar(&emitCtx.level, "level", emitCtx.level, "threshold: none, error, warning, info, verbose")
	f.StringVar(&emitCtx.alias, "alias", "", "alias prefixed to every line")
	f.Var(newBytesValue(&emitCtx.maxSize), "max-size", "rotate files above this size, e.g. 100KB (rounded up to whole KB)")
	f.DurationVar(&emitCtx.rolling, "rolling", 0, "rotate files older than this")
	f.IntVar(&emitCtx.goroutines, "goroutines", emitCtx.goroutines, "number of emitting goroutines")
	f.IntVar(&emitCtx.records, "records", emitCtx.records, "records per goroutine")
	f.StringVar(&emitCtx.message, "message", emitCtx.message, "message text")
}

func runEmit(cmd *cobra.Command, _ []string) error {
	cfg := filelog.DefaultConfig()
	if emitCtx.configPath != "" {
		var err error
		if cfg, err = filelog.LoadConfig(emitCtx.configPath); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Directory = emitCtx.dir
	}
	if flags.Changed("level") || emitCtx.configPath == "" {
		level, err := filelog.ParseLevel(emitCtx.level)
		if err != nil {
			return err
		}
		cfg.Level = level
	}
	if flags.Changed("alias") {
		cfg.Alias = emitCtx.alias
	}
	if flags.Changed("max-size") {
		cfg.MaxFileSizeKB = (emitCtx.maxSize + 999) / 1000
	}
	if flags.Changed("rolling") {
		cfg.RollingFrequencySecond = int64(emitCtx.rolling / time.Second)
	}

	l := filelog.New(cfg)
	start := time.Now()

	var g errgroup.Group
	for i := 0; i < emitCtx.goroutines; i++ {
		worker := i
		g.Go(func() error {
			for j := 0; j < emitCtx.records; j++ {
				l.Info(emitCtx.message, "worker", worker, "seq", j)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	stats := l.Stats()
	if err := l.Close(); err != nil {
		return err
	}

	files, err := filelog.ListFiles(l.Directory())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "emitted %d records in %s\n", emitCtx.goroutines*emitCtx.records, time.Since(start))
	fmt.Fprintf(out, "directory: %s\n", l.Directory())
	fmt.Fprintf(out, "active:    %s\n", stats.FilePath)
	fmt.Fprintf(out, "rotations: %d by size, %d by age\n", stats.SizeRotations, stats.AgeRotations)
	fmt.Fprintf(out, "files:     %d\n", len(files))
	var total int64
	for _, f := range files {
		total += f.Size
	}
	fmt.Fprintf(out, "total:     %s\n", humanize.Bytes(uint64(total)))
	return nil
}
