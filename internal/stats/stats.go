package stats

import (
	"fmt"

	"github.com/XavierBriggs/Courtside/pkg/models"
)

// Shot is one charted attempt extracted from the event log.
type Shot struct {
	X      float64
	Y      float64
	Made   bool
	Points int
}

// Line is a player's derived stat line with shooting percentages.
type Line struct {
	PlayerID          string
	Name              string
	Number            string
	Points            int
	FGMade            int
	FGAttempts        int
	FGPercentage      string
	ThreePtMade       int
	ThreePtAttempts   int
	ThreePtPercentage string
	FTMade            int
	FTAttempts        int
	FTPercentage      string
	Rebounds          int
	Assists           int
	Blocks            int
	Steals            int
	Fouls             int
}

// Summary folds a team into its exportable aggregate.
type Summary struct {
	TeamName   string
	TotalScore int
	Players    []Line
}

// Percentage renders made/attempts as a percentage string with one
// decimal (Go's %.1f rounding, half to even). Zero attempts is "0.0%".
func Percentage(made, attempts int) string {
	if attempts == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(made)/float64(attempts)*100)
}

// PlayerLine derives the full stat line for one player.
func PlayerLine(p models.Player) Line {
	return Line{
		PlayerID:          p.ID,
		Name:              p.Name,
		Number:            p.Number,
		Points:            p.Stats.Points,
		FGMade:            p.Stats.FGMade,
		FGAttempts:        p.Stats.FGAttempts,
		FGPercentage:      Percentage(p.Stats.FGMade, p.Stats.FGAttempts),
		ThreePtMade:       p.Stats.ThreePtMade,
		ThreePtAttempts:   p.Stats.ThreePtAttempts,
		ThreePtPercentage: Percentage(p.Stats.ThreePtMade, p.Stats.ThreePtAttempts),
		FTMade:            p.Stats.FTMade,
		FTAttempts:        p.Stats.FTAttempts,
		FTPercentage:      Percentage(p.Stats.FTMade, p.Stats.FTAttempts),
		Rebounds:          p.Stats.Rebounds,
		Assists:           p.Stats.Assists,
		Blocks:            p.Stats.Blocks,
		Steals:            p.Stats.Steals,
		Fouls:             p.Stats.Fouls,
	}
}

// TeamSummary folds a team's roster into derived lines, roster order
// preserved.
func TeamSummary(t models.Team) Summary {
	out := Summary{
		TeamName:   t.Name,
		TotalScore: t.Score,
		Players:    make([]Line, 0, len(t.Players)),
	}
	for _, p := range t.Players {
		out.Players = append(out.Players, PlayerLine(p))
	}
	return out
}

// ShotsForPlayer extracts the charted shots for one player: POINT events
// credited to that player that carry a location. A shot is made when its
// recorded value is positive.
func ShotsForPlayer(events []models.GameEvent, playerID string) []Shot {
	var shots []Shot
	for _, e := range events {
		if e.Type != models.EventPoint || e.PlayerID != playerID || e.ShotLocation == nil {
			continue
		}
		points := 0
		if e.Value != nil {
			points = *e.Value
		}
		shots = append(shots, Shot{
			X:      e.ShotLocation.X,
			Y:      e.ShotLocation.Y,
			Made:   points > 0,
			Points: points,
		})
	}
	return shots
}
