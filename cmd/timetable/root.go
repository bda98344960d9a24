package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/app"
	"github.com/noah-isme/sma-timetable/pkg/config"
	"github.com/noah-isme/sma-timetable/pkg/logger"
)

type rootOptions struct {
	gridPath         string
	classroomPath    string
	multiTeacherPath string
	classroomSheet   string
	grade            int
	logLevel         string
	asJSON           bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "timetable",
		Short:         "Inspect student timetables resolved from the schedule workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.gridPath, "grid", "", "student timetable workbook (overrides TIMETABLE_GRID_PATH)")
	flags.StringVar(&opts.classroomPath, "rooms", "", "classroom workbook (overrides TIMETABLE_CLASSROOM_PATH)")
	flags.StringVar(&opts.multiTeacherPath, "multi", "", "multi-teacher workbook (overrides TIMETABLE_MULTI_TEACHER_PATH)")
	flags.StringVar(&opts.classroomSheet, "rooms-sheet", "", "classroom worksheet name")
	flags.IntVar(&opts.grade, "grade", 0, "grade to load")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level written to stderr")
	flags.BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")

	cmd.AddCommand(
		newStudentsCommand(opts),
		newShowCommand(opts),
		newBlocksCommand(opts),
		newOverlapCommand(opts),
		newRankCommand(opts),
		newCalendarCommand(opts),
		newPDFCommand(opts),
		newAnalyzeCommand(opts),
		newTokenCommand(opts),
	)
	return cmd
}

func (o *rootOptions) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.gridPath != "" {
		cfg.Timetable.GridPath = o.gridPath
	}
	if o.classroomPath != "" {
		cfg.Timetable.ClassroomPath = o.classroomPath
	}
	if o.multiTeacherPath != "" {
		cfg.Timetable.MultiTeacherPath = o.multiTeacherPath
	}
	if o.classroomSheet != "" {
		cfg.Timetable.ClassroomSheet = o.classroomSheet
	}
	if o.grade > 0 {
		cfg.Timetable.Grade = o.grade
	}
	return cfg, nil
}

// container wires the services without Postgres or Redis.
func (o *rootOptions) container(ctx context.Context) (*app.Container, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	logr, err := logger.NewCLI(o.logLevel)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logr, app.Options{})
}

// loaded wires the services and installs the roster from the workbooks.
func (o *rootOptions) loaded(ctx context.Context) (*app.Container, error) {
	c, err := o.container(ctx)
	if err != nil {
		return nil, err
	}
	loaded, err := c.Roster.Reload(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Logger.Debug("roster loaded", zap.Int("students", loaded.Roster.Len()))
	return c, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
