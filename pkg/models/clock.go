package models

import "fmt"

// ParseClock splits a "MM:SS" clock string into minutes and seconds.
// The store deliberately does not validate clock strings on write, so
// anything that touches clock math parses defensively through this.
func ParseClock(clock string) (minutes, seconds int, err error) {
	if _, err = fmt.Sscanf(clock, "%d:%d", &minutes, &seconds); err != nil {
		return 0, 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	if minutes < 0 || seconds < 0 || seconds > 59 {
		return 0, 0, fmt.Errorf("parse clock %q: out of range", clock)
	}
	return minutes, seconds, nil
}

// FormatClock renders minutes and seconds as a zero-padded "MM:SS" string.
func FormatClock(minutes, seconds int) string {
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
