package store

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/XavierBriggs/Courtside/pkg/models"
)

// Store is the single source of truth for the live game. All mutations go
// through its operation set and are atomic: a reader never observes a
// partially-updated team or player record. Consumers only ever receive
// deep-copied snapshots; no writable reference to internal state escapes.
type Store struct {
	mu      sync.RWMutex
	state   models.GameState
	version uint64
	nextID  uint64

	cfg    Config
	logger *slog.Logger

	// injectable for tests
	now func() time.Time

	onChange func(models.GameState)
}

// NewStore creates a store holding the empty initial game template.
func NewStore(cfg Config, logger *slog.Logger) *Store {
	if cfg.PeriodClock == "" {
		cfg = DefaultConfig()
	}
	s := &Store{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		nextID: 1,
	}
	s.state = s.initialState()
	return s
}

// initialState is the empty template: no teams, clock at the period
// default, full timeout allotment.
func (s *Store) initialState() models.GameState {
	return models.GameState{
		GameID:    "",
		Period:    1,
		Clock:     s.cfg.PeriodClock,
		IsRunning: false,
		HomeTeam:  models.Team{Timeouts: s.cfg.TeamTimeouts, Players: []models.Player{}},
		AwayTeam:  models.Team{Timeouts: s.cfg.TeamTimeouts, Players: []models.Player{}},
		Events:    []models.GameEvent{},
	}
}

// Snapshot returns a deep copy of the current game state.
func (s *Store) Snapshot() models.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Version returns the mutation counter. It increments on every applied
// mutation and lets the persistence adapter skip redundant writes.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// OnChange registers a callback invoked with a snapshot after every
// applied mutation. The callback runs outside the store lock and must not
// block; durability is the callback's problem, not the mutation's.
func (s *Store) OnChange(fn func(models.GameState)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// mutate runs fn under the write lock. If fn reports a change, the version
// is bumped and the change callback fires with a fresh snapshot.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	changed := fn()
	var snap models.GameState
	var notify func(models.GameState)
	if changed {
		s.version++
		if s.onChange != nil {
			snap = s.state.Clone()
			notify = s.onChange
		}
	}
	s.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
}

// StartGame replaces the current state wholesale: fresh game ID, period 1,
// default clock, stopped, empty event log, possession to the home team.
// Any in-progress game is discarded without confirmation; guarding that is
// the caller's responsibility.
func (s *Store) StartGame(home, away models.Team) {
	s.mutate(func() bool {
		next := s.initialState()
		next.GameID = strconv.FormatInt(s.now().UnixMilli(), 10)
		next.HomeTeam = normalizeTeam(home, s.cfg.TeamTimeouts)
		next.AwayTeam = normalizeTeam(away, s.cfg.TeamTimeouts)
		next.Possession = home.ID
		s.state = next
		return true
	})
}

// normalizeTeam deep-copies an incoming roster and re-derives the team
// aggregates so the score-equals-sum-of-points invariant holds from the
// first mutation on.
func normalizeTeam(t models.Team, timeouts int) models.Team {
	out := t.Clone()
	out.Timeouts = timeouts
	out.Score = 0
	for _, p := range out.Players {
		out.Score += p.Stats.Points
	}
	return out
}

// ResetGame restores the empty initial template, abandoning any game.
func (s *Store) ResetGame() {
	s.mutate(func() bool {
		s.state = s.initialState()
		return true
	})
}

// ToggleClock flips the running flag. Whether the game is in a state fit
// to run (enough players on court, roster complete) is caller-side policy.
func (s *Store) ToggleClock() {
	s.mutate(func() bool {
		s.state.IsRunning = !s.state.IsRunning
		return true
	})
}

// UpdateClock sets the clock string verbatim. No bounds or format
// validation happens here; callers own the legality of the value.
func (s *Store) UpdateClock(clock string) {
	s.mutate(func() bool {
		s.state.Clock = clock
		return true
	})
}

// NextPeriod advances to the next period and stops the clock. Periods have
// no maximum; overtime just keeps incrementing.
func (s *Store) NextPeriod() {
	s.mutate(func() bool {
		s.state.Period++
		s.state.Clock = s.cfg.PeriodClock
		s.state.IsRunning = false
		return true
	})
}

// TickClock decrements the clock by one second with minute borrow, forcing
// the running flag off when the clock reaches 00:00. It reports whether
// the clock is still running afterwards. An unparseable clock value is
// treated as expired. This is the single atomic decrement the clock driver
// calls; two racing decrements of the same displayed value are impossible.
func (s *Store) TickClock() bool {
	running := false
	s.mutate(func() bool {
		if !s.state.IsRunning {
			return false
		}

		minutes, seconds, err := models.ParseClock(s.state.Clock)
		if err != nil {
			s.logWarn("clock tick on unparseable clock, stopping", "clock", s.state.Clock)
			s.state.IsRunning = false
			return true
		}

		seconds--
		if seconds < 0 {
			if minutes > 0 {
				minutes--
				seconds = 59
			} else {
				s.state.Clock = models.FormatClock(0, 0)
				s.state.IsRunning = false
				return true
			}
		}

		s.state.Clock = models.FormatClock(minutes, seconds)
		if minutes == 0 && seconds == 0 {
			s.state.IsRunning = false
		}
		running = s.state.IsRunning
		return true
	})
	return running
}

// AddPoints credits a made or missed shot to a player: team score and
// player points go up by points, a field-goal attempt is always recorded,
// a make is recorded when points > 0, and a three adds to the three-point
// counters. A one-point make is recorded as a field goal, not a free
// throw; free-throw counters move only through UpdatePlayerStat. The
// optional location rides on the appended POINT event for shot charting.
// Unresolvable team/player pairs are a silent no-op.
func (s *Store) AddPoints(teamID, playerID string, points int, loc *models.ShotLocation) {
	s.mutate(func() bool {
		team := s.resolveTeam(teamID)
		if team == nil {
			return false
		}
		player := findPlayer(team, playerID)
		if player == nil {
			return false
		}

		team.Score += points
		player.Stats.Points += points
		player.Stats.FGAttempts++
		if points > 0 {
			player.Stats.FGMade++
		}
		if points == 3 {
			player.Stats.ThreePtAttempts++
			player.Stats.ThreePtMade++
		}

		value := points
		desc := fmt.Sprintf("%s missed a shot", player.Name)
		if points > 0 {
			desc = fmt.Sprintf("%s made a %d-point shot", player.Name, points)
		}
		s.appendEventLocked(models.GameEvent{
			Type:         models.EventPoint,
			TeamID:       teamID,
			PlayerID:     playerID,
			Value:        &value,
			Description:  desc,
			ShotLocation: loc,
		})
		return true
	})
}

// AddFoul adds one personal foul to the player. No foul-out logic.
func (s *Store) AddFoul(teamID, playerID string) {
	s.mutate(func() bool {
		team := s.resolveTeam(teamID)
		if team == nil {
			return false
		}
		player := findPlayer(team, playerID)
		if player == nil {
			return false
		}

		player.Stats.Fouls++
		s.appendEventLocked(models.GameEvent{
			Type:        models.EventFoul,
			TeamID:      teamID,
			PlayerID:    playerID,
			Description: fmt.Sprintf("Foul on %s", player.Name),
		})
		return true
	})
}

// AddTimeout consumes one of the team's timeouts, floored at zero. The
// floored case is a silent no-op and logs no event.
func (s *Store) AddTimeout(teamID string) {
	s.mutate(func() bool {
		team := s.resolveTeam(teamID)
		if team == nil || team.Timeouts <= 0 {
			return false
		}

		team.Timeouts--
		s.appendEventLocked(models.GameEvent{
			Type:        models.EventTimeout,
			TeamID:      teamID,
			Description: fmt.Sprintf("%s timeout (%d remaining)", team.Name, team.Timeouts),
		})
		return true
	})
}

// UpdatePlayerStat sets (not increments) the named stat. Used for manual
// correction. Setting "points" re-derives the team score so it stays equal
// to the sum of player points. Unknown stat names are a silent no-op.
func (s *Store) UpdatePlayerStat(teamID, playerID, stat string, value int) {
	s.mutate(func() bool {
		team := s.resolveTeam(teamID)
		if team == nil {
			return false
		}
		player := findPlayer(team, playerID)
		if player == nil {
			return false
		}

		switch stat {
		case models.StatPoints:
			player.Stats.Points = value
			team.Score = 0
			for _, p := range team.Players {
				team.Score += p.Stats.Points
			}
		case models.StatAssists:
			player.Stats.Assists = value
		case models.StatRebounds:
			player.Stats.Rebounds = value
		case models.StatSteals:
			player.Stats.Steals = value
		case models.StatBlocks:
			player.Stats.Blocks = value
		case models.StatFouls:
			player.Stats.Fouls = value
		case models.StatFGAttempts:
			player.Stats.FGAttempts = value
		case models.StatFGMade:
			player.Stats.FGMade = value
		case models.StatThreePtAttempts:
			player.Stats.ThreePtAttempts = value
		case models.StatThreePtMade:
			player.Stats.ThreePtMade = value
		case models.StatFTAttempts:
			player.Stats.FTAttempts = value
		case models.StatFTMade:
			player.Stats.FTMade = value
		default:
			s.logWarn("update for unknown stat ignored", "stat", stat)
			return false
		}
		return true
	})
}

// TogglePlayerOnCourt flips the player's on-court flag and logs a
// SUBSTITUTION event. On-court roster-size limits are caller-side policy.
func (s *Store) TogglePlayerOnCourt(teamID, playerID string) {
	s.mutate(func() bool {
		team := s.resolveTeam(teamID)
		if team == nil {
			return false
		}
		player := findPlayer(team, playerID)
		if player == nil {
			return false
		}

		player.IsOnCourt = !player.IsOnCourt
		desc := fmt.Sprintf("%s checked out", player.Name)
		if player.IsOnCourt {
			desc = fmt.Sprintf("%s checked in", player.Name)
		}
		s.appendEventLocked(models.GameEvent{
			Type:        models.EventSubstitution,
			TeamID:      teamID,
			PlayerID:    playerID,
			Description: desc,
		})
		return true
	})
}

// AddEvent appends an externally-built event (rebounds, assists, blocks,
// steals, manual entries). The store assigns the ID, timestamp and current
// game time; the log is append-only and newest-first.
func (s *Store) AddEvent(event models.GameEvent) {
	s.mutate(func() bool {
		s.appendEventLocked(event)
		return true
	})
}

// Restore installs a rehydrated state. Startup path only; the event ID
// counter resumes past the highest ID in the restored log.
func (s *Store) Restore(state models.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Clone()
	for _, e := range s.state.Events {
		if id, err := strconv.ParseUint(e.ID, 10, 64); err == nil && id >= s.nextID {
			s.nextID = id + 1
		}
	}
	s.version++
}

// appendEventLocked stamps and prepends an event. Caller holds the lock.
func (s *Store) appendEventLocked(event models.GameEvent) {
	event.ID = strconv.FormatUint(s.nextID, 10)
	s.nextID++
	event.Timestamp = s.now()
	event.GameTime = s.state.Clock
	s.state.Events = append([]models.GameEvent{event}, s.state.Events...)
}

// resolveTeam returns a pointer into state for the matching team, or nil.
// Caller holds the lock.
func (s *Store) resolveTeam(teamID string) *models.Team {
	if teamID == "" {
		return nil
	}
	switch teamID {
	case s.state.HomeTeam.ID:
		return &s.state.HomeTeam
	case s.state.AwayTeam.ID:
		return &s.state.AwayTeam
	}
	return nil
}

func findPlayer(team *models.Team, playerID string) *models.Player {
	for i := range team.Players {
		if team.Players[i].ID == playerID {
			return &team.Players[i]
		}
	}
	return nil
}

func (s *Store) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
