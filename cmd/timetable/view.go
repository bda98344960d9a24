package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/service"
)

func bindSelectorFlags(cmd *cobra.Command, q *dto.TimetableQuery) {
	flags := cmd.Flags()
	flags.StringVar(&q.Day, "day", "", "single day, e.g. 월, 화요일, wed")
	flags.IntVar(&q.Period, "period", 0, "single period 1-9")
	flags.StringVar(&q.From, "from", "", "first day of a span")
	flags.StringVar(&q.To, "to", "", "last day of a span")
	flags.IntVar(&q.PeriodFrom, "period-from", 0, "first period of a span")
	flags.IntVar(&q.PeriodTo, "period-to", 0, "last period of a span")
}

func newStudentsCommand(opts *rootOptions) *cobra.Command {
	var q dto.StudentListQuery
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List the students of the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := opts.loaded(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			rows, page, err := c.Timetables.List(ctx, q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, map[string]interface{}{"students": rows, "pagination": page})
			}
			for _, row := range rows {
				fmt.Fprintf(out, "%d %s\t%d과목 %d시간\n", row.ID, row.Name, row.Subjects, row.CreditHours)
			}
			fmt.Fprintf(out, "page %d, %d of %d students\n", page.Page, len(rows), page.TotalCount)
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.PageSize, "page-size", 500, "students per page")
	return cmd
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	var q dto.TimetableQuery
	cmd := &cobra.Command{
		Use:   "show <student>",
		Short: "Print a student's timetable, optionally narrowed to days and periods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.loaded(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			if opts.asJSON {
				view, err := c.Timetables.View(ctx, args[0], q)
				if err != nil {
					return err
				}
				return writeJSON(out, view)
			}

			student, err := c.Roster.Student(args[0])
			if err != nil {
				return err
			}
			sels, scalar := service.Selectors(q)
			view, err := student.Timetable.Select(sels...)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, student)
			if scalar {
				class, err := view.Value()
				if err != nil {
					return err
				}
				if class.IsGap() {
					fmt.Fprintln(out, "(공강)")
					return nil
				}
				fmt.Fprintln(out, class)
				return nil
			}
			fmt.Fprint(out, view.String())
			return nil
		},
	}
	bindSelectorFlags(cmd, &q)
	return cmd
}

func newBlocksCommand(opts *rootOptions) *cobra.Command {
	var (
		q    dto.TimetableQuery
		gaps bool
	)
	cmd := &cobra.Command{
		Use:   "blocks <student>",
		Short: "Print each day as runs of consecutive identical periods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.loaded(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			days, err := c.Timetables.Blocks(ctx, args[0], q, gaps)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, days)
			}
			for _, day := range days {
				fmt.Fprintln(out, day.DayName)
				for _, b := range day.Blocks {
					label := "(공강)"
					if b.Subject != nil {
						label = b.Subject.Name
						if b.Teacher != nil && b.Teacher.Name != "" {
							label += " / " + b.Teacher.Name
						}
					}
					fmt.Fprintf(out, "  %d-%d교시 %s~%s %s\n", b.StartPeriod, b.EndPeriod, b.Start, b.End, label)
				}
			}
			return nil
		},
	}
	bindSelectorFlags(cmd, &q)
	cmd.Flags().BoolVar(&gaps, "gaps", false, "include free periods")
	return cmd
}

func newOverlapCommand(opts *rootOptions) *cobra.Command {
	var q dto.OverlapQuery
	cmd := &cobra.Command{
		Use:   "overlap",
		Short: "List pairs of students sharing at least the threshold in credit hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := opts.loaded(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.Overlaps.Report(ctx, q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, report)
			}
			for _, g := range report.Groups {
				pairs := make([]string, 0, len(g.Pairs))
				for _, p := range g.Pairs {
					pairs = append(pairs, p.A.Name+" & "+p.B.Name)
				}
				fmt.Fprintf(out, "%d시수\t%s\n", g.Hours, strings.Join(pairs, ", "))
			}
			fmt.Fprintf(out, "%d pairs at %d hours or more\n", report.PairCount, report.Threshold)
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Threshold, "threshold", 0, "minimum shared credit hours (default OVERLAP_THRESHOLD)")
	return cmd
}

func newRankCommand(opts *rootOptions) *cobra.Command {
	var q dto.RankingQuery
	cmd := &cobra.Command{
		Use:   "rank <student>",
		Short: "Rank the students sharing the most credit hours with a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.loaded(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			ranking, err := c.Overlaps.Rankings(ctx, args[0], q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, ranking)
			}
			fmt.Fprintf(out, "%d %s\n", ranking.Student.ID, ranking.Student.Name)
			for _, e := range ranking.Entries {
				names := make([]string, 0, len(e.Subjects))
				for _, s := range e.Subjects {
					names = append(names, s.Name)
				}
				fmt.Fprintf(out, "%2d. %d %s\t%d시간\t%s\n", e.Rank, e.Student.ID, e.Student.Name, e.Score, strings.Join(names, ", "))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Top, "top", 0, "number of entries (default OVERLAP_TOP_K)")
	return cmd
}
