package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XavierBriggs/Courtside/internal/export"
	"github.com/XavierBriggs/Courtside/pkg/testutil"
)

// fakeSharer records the handed-off path and whether the file existed at
// hand-off time.
type fakeSharer struct {
	path          string
	existedOnCall bool
	err           error
}

func (f *fakeSharer) Share(ctx context.Context, path string) error {
	f.path = path
	_, statErr := os.Stat(path)
	f.existedOnCall = statErr == nil
	return f.err
}

func TestExport_WritesSharesAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	sharer := &fakeSharer{}
	exporter := export.NewExporter(sharer, dir, nil)

	err := exporter.Export(context.Background(), testutil.PopulatedGameState(), "2025-11-02")
	assert.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "basketball_stats_20251102.xlsx"), sharer.path)
	assert.True(t, sharer.existedOnCall, "file must exist while being shared")

	_, statErr := os.Stat(sharer.path)
	assert.True(t, os.IsNotExist(statErr), "temp file must be deleted after sharing")
}

func TestExport_ShareFailureIsSurfacedAndStillCleansUp(t *testing.T) {
	dir := t.TempDir()
	sharer := &fakeSharer{err: errors.New("share sheet dismissed")}
	exporter := export.NewExporter(sharer, dir, nil)

	err := exporter.Export(context.Background(), testutil.PopulatedGameState(), "2025-11-02")
	assert.Error(t, err)
	assert.ErrorContains(t, err, "export game stats")

	_, statErr := os.Stat(sharer.path)
	assert.True(t, os.IsNotExist(statErr), "temp file must be deleted on the failure path too")
}

func TestBuildWorkbook_HasFourNamedSheets(t *testing.T) {
	wb := export.BuildWorkbook(testutil.PopulatedGameState(), "2025-11-02")
	defer wb.Close()

	assert.Equal(t, []string{
		export.SheetBoxScore,
		export.SheetDetailedStats,
		export.SheetShotChart,
		export.SheetGameLog,
	}, wb.GetSheetList())
}

func TestBuildWorkbook_BoxScoreLayout(t *testing.T) {
	wb := export.BuildWorkbook(testutil.PopulatedGameState(), "2025-11-02")
	defer wb.Close()

	cell := func(ref string) string {
		v, err := wb.GetCellValue(export.SheetBoxScore, ref)
		assert.NoError(t, err)
		return v
	}

	assert.Equal(t, "Game Date:", cell("A1"))
	assert.Equal(t, "2025-11-02", cell("B1"))
	assert.Equal(t, "Hawks", cell("A3"))
	assert.Equal(t, "Wolves", cell("E3"))
	assert.Equal(t, "Player", cell("A4"))
	assert.Equal(t, "23 Jordan Lee", cell("A5"))
	assert.Equal(t, "7", cell("B5"))
	assert.Equal(t, "8 Riley Chen", cell("E5"))

	// five roster rows, a blank row, then totals
	assert.Equal(t, "Total", cell("A11"))
	assert.Equal(t, "7", cell("B11"))
	assert.Equal(t, "Total", cell("E11"))
	assert.Equal(t, "2", cell("F11"))
}

func TestBuildWorkbook_DetailedStatsPercentages(t *testing.T) {
	wb := export.BuildWorkbook(testutil.PopulatedGameState(), "2025-11-02")
	defer wb.Close()

	team, err := wb.GetCellValue(export.SheetDetailedStats, "A4")
	assert.NoError(t, err)
	assert.Equal(t, "Hawks", team)

	name, err := wb.GetCellValue(export.SheetDetailedStats, "B4")
	assert.NoError(t, err)
	assert.Equal(t, "Jordan Lee", name)

	fgPct, err := wb.GetCellValue(export.SheetDetailedStats, "G4")
	assert.NoError(t, err)
	assert.Equal(t, "60.0%", fgPct)
}

func TestBuildWorkbook_GameLogIsChronological(t *testing.T) {
	wb := export.BuildWorkbook(testutil.PopulatedGameState(), "2025-11-02")
	defer wb.Close()

	// the in-memory log is newest-first; the sheet re-sorts it ascending
	first, err := wb.GetCellValue(export.SheetGameLog, "A4")
	assert.NoError(t, err)
	assert.Equal(t, "11:20", first)

	firstType, err := wb.GetCellValue(export.SheetGameLog, "D4")
	assert.NoError(t, err)
	assert.Equal(t, "POINT", firstType)

	last, err := wb.GetCellValue(export.SheetGameLog, "A7")
	assert.NoError(t, err)
	assert.Equal(t, "09:12", last)

	lastType, err := wb.GetCellValue(export.SheetGameLog, "D7")
	assert.NoError(t, err)
	assert.Equal(t, "FOUL", lastType)
}

func TestBuildWorkbook_ShotChartRows(t *testing.T) {
	wb := export.BuildWorkbook(testutil.PopulatedGameState(), "2025-11-02")
	defer wb.Close()

	// p1 has two located shots; the unlocated away make contributes none
	made, err := wb.GetCellValue(export.SheetShotChart, "D4")
	assert.NoError(t, err)
	assert.Equal(t, "No", made)

	made, err = wb.GetCellValue(export.SheetShotChart, "D5")
	assert.NoError(t, err)
	assert.Equal(t, "Yes", made)

	x, err := wb.GetCellValue(export.SheetShotChart, "F5")
	assert.NoError(t, err)
	assert.Equal(t, "88", x)

	empty, err := wb.GetCellValue(export.SheetShotChart, "A6")
	assert.NoError(t, err)
	assert.Equal(t, "", empty)
}
