package models

import "time"

// EventType classifies an entry in the game event log
type EventType string

const (
	EventPoint        EventType = "POINT"
	EventFoul         EventType = "FOUL"
	EventTimeout      EventType = "TIMEOUT"
	EventSubstitution EventType = "SUBSTITUTION"
	EventRebound      EventType = "REBOUND"
	EventAssist       EventType = "ASSIST"
	EventBlock        EventType = "BLOCK"
	EventSteal        EventType = "STEAL"
)

// Stat names accepted by the store's UpdatePlayerStat operation
const (
	StatPoints          = "points"
	StatAssists         = "assists"
	StatRebounds        = "rebounds"
	StatSteals          = "steals"
	StatBlocks          = "blocks"
	StatFouls           = "fouls"
	StatFGAttempts      = "fgAttempts"
	StatFGMade          = "fgMade"
	StatThreePtAttempts = "threePtAttempts"
	StatThreePtMade     = "threePtMade"
	StatFTAttempts      = "ftAttempts"
	StatFTMade          = "ftMade"
)

// PlayerStats holds the accumulated stat line for one player.
// All counters are non-negative; made counts never exceed attempts.
type PlayerStats struct {
	Points          int `json:"points"`
	Assists         int `json:"assists"`
	Rebounds        int `json:"rebounds"`
	Steals          int `json:"steals"`
	Blocks          int `json:"blocks"`
	Fouls           int `json:"fouls"`
	FGAttempts      int `json:"fgAttempts"`
	FGMade          int `json:"fgMade"`
	ThreePtAttempts int `json:"threePtAttempts"`
	ThreePtMade     int `json:"threePtMade"`
	FTAttempts      int `json:"ftAttempts"`
	FTMade          int `json:"ftMade"`
}

// Player is one roster entry. Number is a display string and is not
// required to be unique.
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Number    string      `json:"number"`
	IsOnCourt bool        `json:"isOnCourt"`
	Stats     PlayerStats `json:"stats"`
}

// Team holds one side's roster and aggregates. Score is maintained by the
// store and always equals the sum of its players' points.
type Team struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Score    int      `json:"score"`
	Timeouts int      `json:"timeouts"`
	Players  []Player `json:"players"`
}

// ShotLocation is a court position in percentage coordinates [0,100].
type ShotLocation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GameEvent is one immutable entry in the audit log. Value carries the
// points scored for POINT events (0 for a missed shot).
type GameEvent struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	GameTime     string        `json:"gameTime"`
	Type         EventType     `json:"type"`
	TeamID       string        `json:"teamId"`
	PlayerID     string        `json:"playerId"`
	Value        *int          `json:"value,omitempty"`
	Description  string        `json:"description"`
	ShotLocation *ShotLocation `json:"shotLocation,omitempty"`
}

// GameState is the full state of the single live game. Events are ordered
// newest-first; consumers needing chronological order re-sort by timestamp.
type GameState struct {
	GameID     string      `json:"gameId"`
	Period     int         `json:"period"`
	Clock      string      `json:"clock"`
	IsRunning  bool        `json:"isRunning"`
	HomeTeam   Team        `json:"homeTeam"`
	AwayTeam   Team        `json:"awayTeam"`
	Events     []GameEvent `json:"events"`
	Possession string      `json:"possession"`
}

// Clone returns a deep copy of the team.
func (t Team) Clone() Team {
	out := t
	out.Players = make([]Player, len(t.Players))
	copy(out.Players, t.Players)
	return out
}

// Clone returns a deep copy of the event, including its shot location.
func (e GameEvent) Clone() GameEvent {
	out := e
	if e.Value != nil {
		v := *e.Value
		out.Value = &v
	}
	if e.ShotLocation != nil {
		loc := *e.ShotLocation
		out.ShotLocation = &loc
	}
	return out
}

// Clone returns a deep copy of the game state.
func (s GameState) Clone() GameState {
	out := s
	out.HomeTeam = s.HomeTeam.Clone()
	out.AwayTeam = s.AwayTeam.Clone()
	out.Events = make([]GameEvent, len(s.Events))
	for i, e := range s.Events {
		out.Events[i] = e.Clone()
	}
	return out
}
