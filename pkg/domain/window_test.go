package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowContains(t *testing.T) {
	opens := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	closes := time.Date(2026, 3, 8, 17, 0, 0, 0, time.UTC)
	w := Window{Opens: opens, Closes: closes}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before open", opens.Add(-time.Nanosecond), false},
		{"exactly at open", opens, true},
		{"inside", opens.Add(time.Hour), true},
		{"exactly at close", closes, true},
		{"after close", closes.Add(time.Nanosecond), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, w.Contains(tc.now))
		})
	}
}

func TestWindowOrdered(t *testing.T) {
	now := time.Now()
	assert.True(t, Window{Opens: now, Closes: now.Add(time.Hour)}.Ordered())
	assert.True(t, Window{Opens: now, Closes: now}.Ordered())
	assert.False(t, Window{Opens: now.Add(time.Hour), Closes: now}.Ordered())
}
