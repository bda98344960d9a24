package repository

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// WorkbookRepository reads worksheets of .xlsx files as ragged string rows.
type WorkbookRepository struct {
	logger *zap.Logger
}

// NewWorkbookRepository constructs the repository.
func NewWorkbookRepository(logger *zap.Logger) *WorkbookRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkbookRepository{logger: logger}
}

// ReadSheet returns the rows of the named sheet. An empty name selects the
// first sheet in the workbook. The resolved sheet name is returned with the rows.
func (r *WorkbookRepository) ReadSheet(ctx context.Context, path, sheet string) (string, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrSourceMalformed.Code, appErrors.ErrSourceMalformed.Status, fmt.Sprintf("open workbook %s", path))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("close workbook", zap.String("path", path), zap.Error(cerr))
		}
	}()

	name, err := resolveSheet(f, sheet)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrSourceMalformed.Code, appErrors.ErrSourceMalformed.Status, err.Error())
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return "", nil, fmt.Errorf("read sheet %s of %s: %w", name, path, err)
	}

	r.logger.Debug("workbook sheet read", zap.String("path", path), zap.String("sheet", name), zap.Int("rows", len(rows)))
	return name, rows, nil
}

func resolveSheet(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if name == sheet {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found", sheet)
}
