package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"qrcheckin/internal/domain"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	Out    string
	TalkID int64
}

var exportKinds = []string{"registrations", "attendees", "report"}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:       "export <registrations|attendees|report>",
		Short:     "Write a spreadsheet export to a file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: exportKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			file, err := runExport(cmd.Context(), a.reports, args[0], opts.TalkID)
			if err != nil {
				return err
			}
			defer os.Remove(file.Path)

			out := opts.Out
			if out == "" {
				out = file.Filename
			}
			if err := copyFile(file.Path, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default: the generated file name in the current directory)")
	cmd.Flags().Int64Var(&opts.TalkID, "talk", 0, "restrict the per-talk sheets of the attendees export to one talk")

	return cmd
}

func runExport(ctx context.Context, reports domain.ReportService, kind string, talkID int64) (*domain.ExportFile, error) {
	switch kind {
	case "registrations":
		return reports.ExportRegistrations(ctx)
	case "attendees":
		var filter *int64
		if talkID > 0 {
			filter = &talkID
		}
		return reports.ExportConfirmed(ctx, filter)
	case "report":
		return reports.ExportReport(ctx)
	}
	return nil, fmt.Errorf("unknown export %q: must be one of %v", kind, exportKinds)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
