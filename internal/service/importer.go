package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

const MaxImportRows = 5000

// ImportColumns is the header row of an import workbook.
var ImportColumns = []string{
	"name_ar", "name_en", "national_id", "mobile", "mobile2", "gender", "age",
	"nationality_id", "city_id", "package_id", "reservation_id",
}

var requiredImportColumns = []string{"national_id", "mobile", "gender", "age"}

var ErrEmptyWorkbook = errors.New("the workbook has no pilgrim rows")

// RowError points at the spreadsheet row (1-based, header included) that
// failed validation.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type ImportRepository interface {
	Create(ctx context.Context, history domain.ImportHistory, pilgrims []domain.Pilgrim) (domain.ImportHistory, error)
	FindByID(ctx context.Context, id uint) (domain.ImportHistory, error)
	List(ctx context.Context) ([]domain.ImportHistory, error)
}

type ImportService struct {
	repo  ImportRepository
	cache PilgrimCache
}

func NewImportService(repo ImportRepository, cache PilgrimCache) *ImportService {
	return &ImportService{
		repo:  repo,
		cache: cache,
	}
}

// Import reads the first sheet of an xlsx workbook. Any invalid row rejects
// the whole file.
func (s *ImportService) Import(ctx context.Context, fileName string, r io.Reader, adminID uint) (domain.ImportHistory, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.ImportHistory{}, validationErr("failed to parse workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return domain.ImportHistory{}, fmt.Errorf("%w: %w", ErrValidation, ErrEmptyWorkbook)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.ImportHistory{}, fmt.Errorf("f.GetRows -> %w", err)
	}

	pilgrims, err := parseImportRows(rows)
	if err != nil {
		return domain.ImportHistory{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	history, err := s.repo.Create(ctx, domain.ImportHistory{
		FileName:  fileName,
		TotalRows: len(pilgrims),
		CreatedBy: adminID,
	}, pilgrims)
	if err != nil {
		return domain.ImportHistory{}, fmt.Errorf("s.repo.Create -> %w", err)
	}
	invalidatePilgrims(ctx, s.cache)

	zap.L().Info("pilgrims imported",
		zap.Uint("import_history_id", history.ID),
		zap.String("file", fileName),
		zap.Int("rows", history.Imported))

	return history, nil
}

func (s *ImportService) GetImport(ctx context.Context, id uint) (domain.ImportHistory, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ImportHistory{}, fmt.Errorf("s.repo.FindByID -> %w", classify(err))
	}

	return h, nil
}

func (s *ImportService) ListImports(ctx context.Context) ([]domain.ImportHistory, error) {
	hs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return hs, nil
}

// Template returns an empty workbook carrying the import header row.
func (s *ImportService) Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Pilgrims"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("f.SetSheetName -> %w", err)
	}

	header := make([]any, len(ImportColumns))
	for i, c := range ImportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("f.SetSheetRow -> %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("f.NewStyle -> %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(ImportColumns), 1)
	if err != nil {
		return nil, fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
	}
	if err = f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return nil, fmt.Errorf("f.SetCellStyle -> %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("f.WriteToBuffer -> %w", err)
	}

	return buf.Bytes(), nil
}

func parseImportRows(rows [][]string) ([]domain.Pilgrim, error) {
	if len(rows) < 2 {
		return nil, ErrEmptyWorkbook
	}
	if len(rows)-1 > MaxImportRows {
		return nil, fmt.Errorf("at most %d rows can be imported at once", MaxImportRows)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredImportColumns {
		if _, ok := columns[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	pilgrims := make([]domain.Pilgrim, 0, len(rows)-1)
	seen := make(map[string]int, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if blankRow(row) {
			continue
		}

		p, err := parseImportRow(columns, row)
		if err != nil {
			return nil, &RowError{Row: line, Err: err}
		}
		if prev, ok := seen[p.NationalID]; ok {
			return nil, &RowError{Row: line, Err: fmt.Errorf("national id %s duplicates row %d", p.NationalID, prev)}
		}
		seen[p.NationalID] = line
		pilgrims = append(pilgrims, p)
	}
	if len(pilgrims) == 0 {
		return nil, ErrEmptyWorkbook
	}

	return pilgrims, nil
}

func parseImportRow(columns map[string]int, row []string) (domain.Pilgrim, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[i])
	}
	id := func(name string) (uint, error) {
		v := cell(name)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number, got %q", name, v)
		}

		return uint(n), nil
	}

	p := domain.Pilgrim{
		Name:          domain.LocalizedName{AR: cell("name_ar"), EN: cell("name_en")},
		NationalID:    cell("national_id"),
		Mobile:        cell("mobile"),
		Mobile2:       cell("mobile2"),
		ReservationID: cell("reservation_id"),
		Source:        domain.SourceImport,
	}
	if p.Name.AR == "" && p.Name.EN == "" {
		return domain.Pilgrim{}, errors.New("name_ar or name_en is required")
	}

	gender, err := strconv.Atoi(cell("gender"))
	if err != nil {
		return domain.Pilgrim{}, domain.ErrInvalidGender
	}
	p.Gender = domain.Gender(gender)
	if p.Age, err = strconv.Atoi(cell("age")); err != nil {
		return domain.Pilgrim{}, domain.ErrInvalidAge
	}
	if p.NationalityID, err = id("nationality_id"); err != nil {
		return domain.Pilgrim{}, err
	}
	if p.CityID, err = id("city_id"); err != nil {
		return domain.Pilgrim{}, err
	}
	if p.PackageID, err = id("package_id"); err != nil {
		return domain.Pilgrim{}, err
	}

	if err = p.Validate(); err != nil {
		return domain.Pilgrim{}, err
	}

	return p, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
