package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"wordbook/internal/domain"
	"wordbook/internal/service"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Config defines the spreadsheet layout
type Config struct {
	SheetName     string // Empty means the first sheet
	WordColumn    string
	MeaningColumn string
	PosColumn     string
	ExampleColumn string
	TagsColumn    string
	StartRow      int // 1-based; rows above are headers
}

// DefaultConfig returns columns A..E with one header row
func DefaultConfig() Config {
	return Config{
		WordColumn:    "A",
		MeaningColumn: "B",
		PosColumn:     "C",
		ExampleColumn: "D",
		TagsColumn:    "E",
		StartRow:      2,
	}
}

// Result holds the outcome of an import
type Result struct {
	Processed int
	Created   int
	Skipped   int
	Errors    []string
}

type wordCreator interface {
	Create(ctx context.Context, in service.CreateWordInput) (*domain.Word, error)
}

// Importer bulk-creates records from xlsx sheets
type Importer struct {
	words  wordCreator
	cfg    Config
	logger *zap.Logger
}

// New creates an importer writing through words
func New(words wordCreator, cfg Config, logger *zap.Logger) *Importer {
	return &Importer{words: words, cfg: cfg, logger: logger}
}

// ImportFile imports the workbook at path
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	return im.importWorkbook(ctx, f)
}

// Import imports a workbook read from r
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	return im.importWorkbook(ctx, f)
}

func (im *Importer) importWorkbook(ctx context.Context, f *excelize.File) (*Result, error) {
	cols, err := im.columns()
	if err != nil {
		return nil, err
	}

	sheet := im.cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &Result{Errors: make([]string, 0)}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < im.cfg.StartRow {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		in := cols.input(row)
		if in.Word == "" && in.Meaning == "" {
			// Blank line
			continue
		}
		result.Processed++

		if _, err := im.words.Create(ctx, in); err != nil {
			var vErr *domain.ValidationError
			if errors.As(err, &vErr) {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				continue
			}

			im.logger.Error("Failed to import row",
				zap.Error(err),
				zap.Int("row", rowNum),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Created++
	}

	im.logger.Info("Import finished",
		zap.String("sheet", sheet),
		zap.Int("processed", result.Processed),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// columnSet holds zero-based column indexes; -1 means unused
type columnSet struct {
	word, meaning, pos, example, tags int
}

func (im *Importer) columns() (columnSet, error) {
	var cs columnSet
	targets := []struct {
		name string
		dst  *int
	}{
		{im.cfg.WordColumn, &cs.word},
		{im.cfg.MeaningColumn, &cs.meaning},
		{im.cfg.PosColumn, &cs.pos},
		{im.cfg.ExampleColumn, &cs.example},
		{im.cfg.TagsColumn, &cs.tags},
	}
	for _, t := range targets {
		if t.name == "" {
			*t.dst = -1
			continue
		}
		n, err := excelize.ColumnNameToNumber(t.name)
		if err != nil {
			return columnSet{}, fmt.Errorf("invalid column %q: %w", t.name, err)
		}
		*t.dst = n - 1
	}
	if cs.word < 0 || cs.meaning < 0 {
		return columnSet{}, errors.New("word and meaning columns are required")
	}
	return cs, nil
}

func (cs columnSet) input(row []string) service.CreateWordInput {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	optional := func(idx int) *string {
		if v := cell(idx); v != "" {
			return &v
		}
		return nil
	}

	return service.CreateWordInput{
		Word:         cell(cs.word),
		Meaning:      cell(cs.meaning),
		PartOfSpeech: optional(cs.pos),
		Example:      optional(cs.example),
		Tags:         splitTags(cell(cs.tags)),
	}
}

// splitTags parses a comma-separated tag cell, dropping blanks
func splitTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
