package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/XavierBriggs/Courtside/internal/stats"
	"github.com/XavierBriggs/Courtside/pkg/models"
)

// Sheet names in the exported workbook
const (
	SheetBoxScore      = "Box Score"
	SheetDetailedStats = "Detailed Stats"
	SheetShotChart     = "Shot Chart Data"
	SheetGameLog       = "Game Log"
)

// Sharer hands a finished export file to the platform share collaborator.
type Sharer interface {
	Share(ctx context.Context, path string) error
}

// Exporter produces the four-sheet game stats workbook, hands it to the
// sharer, and removes the temporary file afterwards. Unlike the store's
// silent no-ops, export failures are wrapped and returned: the user asked
// for this and needs to know it failed.
type Exporter struct {
	sharer Sharer
	dir    string
	logger *slog.Logger
}

// NewExporter creates an exporter writing temp files into dir (the system
// temp directory when empty).
func NewExporter(sharer Sharer, dir string, logger *slog.Logger) *Exporter {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Exporter{sharer: sharer, dir: dir, logger: logger}
}

// Export builds the workbook from a state snapshot, shares it, and deletes
// the temporary file on both success and failure paths.
func (e *Exporter) Export(ctx context.Context, state models.GameState, gameDate string) error {
	fileName := fmt.Sprintf("basketball_stats_%s.xlsx", digitsOnly(gameDate))
	path := filepath.Join(e.dir, fileName)

	wb := BuildWorkbook(state, gameDate)
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("export game stats: write workbook: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && e.logger != nil {
			e.logger.Warn("export temp file cleanup failed", "path", path, "err", err)
		}
	}()

	if err := e.sharer.Share(ctx, path); err != nil {
		return fmt.Errorf("export game stats: share: %w", err)
	}

	return nil
}

// BuildWorkbook assembles the four sheets from a state snapshot.
func BuildWorkbook(state models.GameState, gameDate string) *excelize.File {
	home := stats.TeamSummary(state.HomeTeam)
	away := stats.TeamSummary(state.AwayTeam)

	wb := excelize.NewFile()
	writeSheet(wb, SheetBoxScore, boxScoreRows(state, home, away, gameDate), true)
	writeSheet(wb, SheetDetailedStats, detailedStatsRows(home, away), false)
	writeSheet(wb, SheetShotChart, shotChartRows(state, home, away), false)
	writeSheet(wb, SheetGameLog, gameLogRows(state), false)
	return wb
}

func boxScoreRows(state models.GameState, home, away stats.Summary, gameDate string) [][]interface{} {
	rows := [][]interface{}{
		{"Game Date:", gameDate},
		{},
		{home.TeamName, "", "", "", away.TeamName},
		{"Player", "PTS", "REB", "AST", "Player", "PTS", "REB", "AST"},
	}

	count := len(home.Players)
	if len(away.Players) > count {
		count = len(away.Players)
	}
	for i := 0; i < count; i++ {
		row := make([]interface{}, 8)
		for j := range row {
			row[j] = ""
		}
		if i < len(home.Players) {
			p := home.Players[i]
			row[0] = fmt.Sprintf("%s %s", p.Number, p.Name)
			row[1], row[2], row[3] = p.Points, p.Rebounds, p.Assists
		}
		if i < len(away.Players) {
			p := away.Players[i]
			row[4] = fmt.Sprintf("%s %s", p.Number, p.Name)
			row[5], row[6], row[7] = p.Points, p.Rebounds, p.Assists
		}
		rows = append(rows, row)
	}

	rows = append(rows, []interface{}{})
	rows = append(rows, []interface{}{"Total", home.TotalScore, "", "", "Total", away.TotalScore})
	return rows
}

func detailedStatsRows(home, away stats.Summary) [][]interface{} {
	rows := [][]interface{}{
		{"Detailed Player Statistics"},
		{},
		{"Team", "Player", "#", "PTS", "FGM", "FGA", "FG%", "3PM", "3PA", "3P%", "FTM", "FTA", "FT%", "REB", "AST", "BLK", "STL", "PF"},
	}
	for _, summary := range []stats.Summary{home, away} {
		for _, p := range summary.Players {
			rows = append(rows, []interface{}{
				summary.TeamName, p.Name, p.Number,
				p.Points,
				p.FGMade, p.FGAttempts, p.FGPercentage,
				p.ThreePtMade, p.ThreePtAttempts, p.ThreePtPercentage,
				p.FTMade, p.FTAttempts, p.FTPercentage,
				p.Rebounds, p.Assists, p.Blocks, p.Steals, p.Fouls,
			})
		}
	}
	return rows
}

func shotChartRows(state models.GameState, home, away stats.Summary) [][]interface{} {
	rows := [][]interface{}{
		{"Shot Chart Data"},
		{},
		{"Team", "Player", "#", "Made", "Points", "X", "Y"},
	}
	for _, summary := range []stats.Summary{home, away} {
		for _, p := range summary.Players {
			for _, shot := range stats.ShotsForPlayer(state.Events, p.PlayerID) {
				made := "No"
				if shot.Made {
					made = "Yes"
				}
				rows = append(rows, []interface{}{
					summary.TeamName, p.Name, p.Number, made, shot.Points, shot.X, shot.Y,
				})
			}
		}
	}
	return rows
}

func gameLogRows(state models.GameState) [][]interface{} {
	rows := [][]interface{}{
		{"Game Log"},
		{},
		{"Time", "Team", "Player", "Event", "Description"},
	}

	// The in-memory log is newest-first; the exported log is chronological.
	// Sorted on a copy with event ID as tiebreak for same-instant entries.
	events := make([]models.GameEvent, len(state.Events))
	copy(events, state.Events)
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		a, _ := strconv.ParseUint(events[i].ID, 10, 64)
		b, _ := strconv.ParseUint(events[j].ID, 10, 64)
		return a < b
	})

	for _, event := range events {
		teamName, playerLabel := resolveEventNames(state, event)
		rows = append(rows, []interface{}{
			event.GameTime, teamName, playerLabel, string(event.Type), event.Description,
		})
	}
	return rows
}

func resolveEventNames(state models.GameState, event models.GameEvent) (teamName, playerLabel string) {
	team := state.AwayTeam
	if event.TeamID == state.HomeTeam.ID {
		team = state.HomeTeam
	}
	for _, p := range team.Players {
		if p.ID == event.PlayerID {
			return team.Name, fmt.Sprintf("%s %s", p.Number, p.Name)
		}
	}
	return team.Name, ""
}

// writeSheet adds a sheet and fills it row by row. The first sheet reuses
// the workbook's default sheet slot.
func writeSheet(wb *excelize.File, name string, rows [][]interface{}, first bool) {
	if first {
		wb.SetSheetName(wb.GetSheetName(0), name)
	} else {
		wb.NewSheet(name)
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			continue
		}
		_ = wb.SetSheetRow(name, cell, &row)
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
