package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/pkg/export"
)

func writeOutput(cmd *cobra.Command, path string, body []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", path, len(body))
	return nil
}

func newCalendarCommand(opts *rootOptions) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "calendar <student>",
		Short: "Write a Google Calendar import file for the term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.loaded(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			switch format {
			case "csv":
				name, body, err := c.Exports.Calendar(ctx, args[0])
				if err != nil {
					return err
				}
				if out == "" {
					out = name
				}
				return writeOutput(cmd, out, body)
			case "xlsx":
				student, err := c.Roster.Student(args[0])
				if err != nil {
					return err
				}
				body, err := export.NewXLSXExporter().Render(export.TableSheet(c.Exports.CalendarDataset(student)))
				if err != nil {
					return err
				}
				if out == "" {
					out = fmt.Sprintf("%d_%s.xlsx", student.ID, student.Name)
				}
				return writeOutput(cmd, out, body)
			default:
				return fmt.Errorf("unknown format %q, want csv or xlsx", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout")
	return cmd
}

func newPDFCommand(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pdf <student>",
		Short: "Render a printable weekly timetable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.loaded(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			name, body, err := c.Exports.TimetablePDF(ctx, args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			return writeOutput(cmd, out, body)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout")
	return cmd
}

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var (
		req dto.AnalysisExportRequest
		out string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Write the section and overlap analysis workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := opts.loaded(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			body, err := c.Exports.AnalysisWorkbook(ctx, req.Threshold)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, body)
		},
	}
	cmd.Flags().IntVar(&req.Threshold, "threshold", 0, "minimum shared credit hours (default OVERLAP_THRESHOLD)")
	cmd.Flags().StringVarP(&out, "out", "o", "시간표 분석.xlsx", "output file")
	return cmd
}

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var req dto.TokenRequest
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the protected API routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.container(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			token, err := c.Tokens.Issue(req)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), token)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Subject, "subject", "", "token subject, usually an operator name")
	cmd.Flags().StringVar(&req.Role, "role", "VIEWER", "ADMIN or VIEWER")
	return cmd
}
