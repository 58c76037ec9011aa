package store

// Config contains the game rules the store applies when building a fresh
// game: how long a period runs and how many timeouts each team starts with.
type Config struct {
	// Clock value a period starts at, "MM:SS"
	PeriodClock string

	// Timeouts allotted to each team at game start
	TeamTimeouts int
}

// DefaultConfig returns standard rules: 12 minute periods, 4 timeouts.
func DefaultConfig() Config {
	return Config{
		PeriodClock:  "12:00",
		TeamTimeouts: 4,
	}
}
