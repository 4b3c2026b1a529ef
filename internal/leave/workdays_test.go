package leave_test

import (
	"testing"
	"time"

	"leavedesk/internal/leave"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDays(t *testing.T) {
	t.Run("full week monday to friday", func(t *testing.T) {
		// 2025-06-02 is a Monday.
		got := leave.WorkingDays(day(2025, 6, 2), day(2025, 6, 6))
		assert.Equal(t, 5, got)
	})

	t.Run("single weekday", func(t *testing.T) {
		// 2025-06-04 is a Wednesday.
		got := leave.WorkingDays(day(2025, 6, 4), day(2025, 6, 4))
		assert.Equal(t, 1, got)
	})

	t.Run("friday to monday skips weekend", func(t *testing.T) {
		got := leave.WorkingDays(day(2025, 6, 6), day(2025, 6, 9))
		assert.Equal(t, 2, got)
	})

	t.Run("weekend only counts zero", func(t *testing.T) {
		got := leave.WorkingDays(day(2025, 6, 7), day(2025, 6, 8))
		assert.Equal(t, 0, got)
	})

	t.Run("end before start counts zero", func(t *testing.T) {
		got := leave.WorkingDays(day(2025, 6, 6), day(2025, 6, 2))
		assert.Equal(t, 0, got)
	})

	t.Run("two full weeks", func(t *testing.T) {
		got := leave.WorkingDays(day(2025, 6, 2), day(2025, 6, 13))
		assert.Equal(t, 10, got)
	})
}
