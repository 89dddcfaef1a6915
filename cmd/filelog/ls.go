package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/LixenWraith/filelog"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls <directory>",
	Short: "list the log files of a directory, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	base := args[0]
	files, err := filelog.ListFiles(base)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSIZE\tMODIFIED")
	var total int64
	for _, f := range files {
		rel, err := filepath.Rel(base, f.Path)
		if err != nil {
			rel = f.Path
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", rel, humanize.Bytes(uint64(f.Size)), humanize.Time(f.ModTime))
		total += f.Size
	}
	fmt.Fprintf(tw, "%d files\t%s\t\n", len(files), humanize.Bytes(uint64(total)))
	return tw.Flush()
}
