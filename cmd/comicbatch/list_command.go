package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"comicbatch/internal/config"
	"comicbatch/internal/extract"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list DIRECTORY",
		Short: "Show the archives a run would process, in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}
			archives, err := extract.Discover(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(archives) == 0 {
				fmt.Fprintf(out, "No .cbz archives found in %s\n", dir)
				return nil
			}

			listing := newReport(column{title: "#", numeric: true}, column{title: "Archive"}, column{title: "Size", numeric: true})
			var total int64
			for _, archive := range archives {
				listing.row(strconv.Itoa(archive.Index+1), archive.Name, humanize.Bytes(uint64(archive.Size)))
				total += archive.Size
			}
			listing.totals("", fmt.Sprintf("%d archives", len(archives)), humanize.Bytes(uint64(total)))
			fmt.Fprintln(out, listing)
			return nil
		},
	}
}
