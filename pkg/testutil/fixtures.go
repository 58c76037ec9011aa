package testutil

import (
	"time"

	"github.com/XavierBriggs/Courtside/pkg/models"
)

// NewTestPlayer creates a roster entry with zeroed stats.
func NewTestPlayer(id, name, number string) models.Player {
	return models.Player{
		ID:        id,
		Name:      name,
		Number:    number,
		IsOnCourt: true,
	}
}

// NewTestTeam creates a team with the given roster.
func NewTestTeam(id, name string, players ...models.Player) models.Team {
	return models.Team{
		ID:      id,
		Name:    name,
		Players: players,
	}
}

// HomeAwayTeams returns a standard pair of five-player rosters.
func HomeAwayTeams() (home, away models.Team) {
	home = NewTestTeam("1", "Hawks",
		NewTestPlayer("p1", "Jordan Lee", "23"),
		NewTestPlayer("p2", "Sam Ortiz", "7"),
		NewTestPlayer("p3", "Chris Park", "11"),
		NewTestPlayer("p4", "Alex Young", "3"),
		NewTestPlayer("p5", "Drew Kim", "15"),
	)
	away = NewTestTeam("2", "Wolves",
		NewTestPlayer("p6", "Riley Chen", "8"),
		NewTestPlayer("p7", "Morgan Diaz", "21"),
		NewTestPlayer("p8", "Casey Webb", "5"),
		NewTestPlayer("p9", "Jamie Cole", "30"),
		NewTestPlayer("p10", "Taylor Reed", "12"),
	)
	return home, away
}

// PopulatedGameState builds a mid-game state with scores, shot locations
// and a multi-entry event log (newest-first), for persistence and export
// tests.
func PopulatedGameState() models.GameState {
	home, away := HomeAwayTeams()

	home.Players[0].Stats = models.PlayerStats{
		Points: 7, FGAttempts: 5, FGMade: 3,
		ThreePtAttempts: 1, ThreePtMade: 1,
		Rebounds: 4, Assists: 2,
	}
	home.Score = 7
	home.Timeouts = 4
	away.Players[0].Stats = models.PlayerStats{
		Points: 2, FGAttempts: 3, FGMade: 1,
		Fouls: 2, Steals: 1,
	}
	away.Score = 2
	away.Timeouts = 3

	base := time.Date(2025, 11, 2, 19, 30, 0, 0, time.UTC)
	two := 2
	three := 3
	miss := 0

	events := []models.GameEvent{
		{
			ID: "4", Timestamp: base.Add(3 * time.Minute), GameTime: "09:12",
			Type: models.EventFoul, TeamID: "2", PlayerID: "p6",
			Description: "Foul on Riley Chen",
		},
		{
			ID: "3", Timestamp: base.Add(2 * time.Minute), GameTime: "10:05",
			Type: models.EventPoint, TeamID: "1", PlayerID: "p1", Value: &miss,
			Description:  "Jordan Lee missed a shot",
			ShotLocation: &models.ShotLocation{X: 12.5, Y: 80},
		},
		{
			ID: "2", Timestamp: base.Add(time.Minute), GameTime: "10:48",
			Type: models.EventPoint, TeamID: "1", PlayerID: "p1", Value: &three,
			Description:  "Jordan Lee made a 3-point shot",
			ShotLocation: &models.ShotLocation{X: 88, Y: 15},
		},
		{
			ID: "1", Timestamp: base, GameTime: "11:20",
			Type: models.EventPoint, TeamID: "2", PlayerID: "p6", Value: &two,
			Description: "Riley Chen made a 2-point shot",
		},
	}

	return models.GameState{
		GameID:     "1762111800000",
		Period:     1,
		Clock:      "08:44",
		IsRunning:  false,
		HomeTeam:   home,
		AwayTeam:   away,
		Events:     events,
		Possession: "1",
	}
}
