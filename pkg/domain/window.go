package domain

import "time"

// Window is an inclusive [Opens, Closes] time interval. Both the nomination
// gate and the voting gate use Window.Contains so the two can never disagree
// on boundary semantics.
type Window struct {
	Opens  time.Time `json:"opens"`
	Closes time.Time `json:"closes"`
}

// Contains reports whether now falls inside the window, bounds included.
func (w Window) Contains(now time.Time) bool {
	return !now.Before(w.Opens) && !now.After(w.Closes)
}

// Ordered reports whether the window closes at or after it opens.
func (w Window) Ordered() bool {
	return !w.Closes.Before(w.Opens)
}
