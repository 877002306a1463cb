package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/uyouii/splash-energy/common"
	"github.com/uyouii/splash-energy/model"
	"github.com/uyouii/splash-energy/utils"
	"go.uber.org/zap"
)

type Splashes struct {
	Camera      *model.SplashTable
	StickyPaper *model.SplashTable
}

// LoadSplashes reads both datasets and shifts their splash numbers to 0-based.
func LoadSplashes(ctx context.Context, cameraPath, stickyPaperPath string) (*Splashes, error) {
	logger := utils.GetLogger(ctx)

	camera, err := LoadTable(ctx, cameraPath, CameraTableName, true)
	if err != nil {
		return nil, err
	}
	stickyPaper, err := LoadTable(ctx, stickyPaperPath, StickyPaperTableName, false)
	if err != nil {
		return nil, err
	}

	if err := camera.Shift(); err != nil {
		return nil, err
	}
	if err := stickyPaper.Shift(); err != nil {
		return nil, err
	}

	logger.Debug("splash numbers shifted",
		zap.String("camera", camera.DebugString()), zap.String("sticky_paper", stickyPaper.DebugString()))

	return &Splashes{Camera: camera, StickyPaper: stickyPaper}, nil
}

func LoadTable(ctx context.Context, path, name string, requireVelocity bool) (*model.SplashTable, error) {
	logger := utils.GetLogger(ctx)

	f, err := os.Open(path)
	if err != nil {
		logger.Error("open table failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	defer f.Close()

	table, err := ReadTable(f, name, requireVelocity)
	if err != nil {
		logger.Error("read table failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%v: %w", path, err)
	}

	logger.Info("table loaded", zap.String("name", name), zap.String("path", path),
		zap.Int("rows", len(table.Records)))
	return table, nil
}

// ReadTable parses a CSV with a header row. Columns other than no, v and e
// are ignored; v is read only when requireVelocity is set.
func ReadTable(r io.Reader, name string, requireVelocity bool) (*model.SplashTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: %w", common.ErrorInvalidValue)
		}
		return nil, err
	}

	columns := map[string]int{}
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}

	required := []string{ColumnSplash, ColumnEnergy}
	if requireVelocity {
		required = append(required, ColumnVelocity)
	}
	for _, c := range required {
		if _, ok := columns[c]; !ok {
			return nil, fmt.Errorf("column %q: %w", c, common.ErrorMissingColumn)
		}
	}

	records := []model.SplashRecord{}
	for row := 0; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		record := model.SplashRecord{Row: row}
		if record.Splash, err = parseInt(fields, columns[ColumnSplash]); err != nil {
			return nil, fmt.Errorf("row %d column %q: %w", row, ColumnSplash, err)
		}
		if record.Energy, err = parseFloat(fields, columns[ColumnEnergy]); err != nil {
			return nil, fmt.Errorf("row %d column %q: %w", row, ColumnEnergy, err)
		}
		if requireVelocity {
			if record.Velocity, err = parseFloat(fields, columns[ColumnVelocity]); err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row, ColumnVelocity, err)
			}
		}
		records = append(records, record)
	}

	return model.NewSplashTable(name, requireVelocity, records), nil
}

func parseFloat(fields []string, idx int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(fields[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", fields[idx], common.ErrorInvalidValue)
	}
	return v, nil
}

// parseInt accepts integral floats such as "3.0", which spreadsheet exports produce.
func parseInt(fields []string, idx int) (int, error) {
	s := strings.TrimSpace(fields[idx])
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%q: %w", fields[idx], common.ErrorInvalidValue)
	}
	return int(f), nil
}
