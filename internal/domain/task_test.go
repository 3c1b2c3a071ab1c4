package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityRank(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, PriorityHigh.Rank())
	assert.Equal(t, 2, PriorityMedium.Rank())
	assert.Equal(t, 3, PriorityLow.Rank())

	// Unknown values rank with medium rather than breaking ordering.
	assert.Equal(t, 2, Priority("urgent").Rank())

	// The whole point of Rank: lexical order would put "high" < "low" < "medium".
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
}

func TestPriorityIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, PriorityLow.IsValid())
	assert.True(t, PriorityMedium.IsValid())
	assert.True(t, PriorityHigh.IsValid())
	assert.False(t, Priority("").IsValid())
	assert.False(t, Priority("HIGH").IsValid())
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Task {
		return &Task{
			ID:       1,
			UserID:   42,
			Title:    "write report",
			Priority: PriorityMedium,
		}
	}

	t.Run("valid task", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing owner", func(t *testing.T) {
		t.Parallel()
		task := valid()
		task.UserID = 0
		assert.ErrorIs(t, task.Validate(), ErrEmptyTaskUser)
	})

	t.Run("empty title", func(t *testing.T) {
		t.Parallel()
		task := valid()
		task.Title = ""
		err := task.Validate()
		assert.ErrorIs(t, err, ErrEmptyTitle)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("title too long", func(t *testing.T) {
		t.Parallel()
		task := valid()
		task.Title = strings.Repeat("x", 256)
		assert.ErrorIs(t, task.Validate(), ErrTitleTooLong)
	})

	t.Run("bad priority", func(t *testing.T) {
		t.Parallel()
		task := valid()
		task.Priority = "critical"
		assert.ErrorIs(t, task.Validate(), ErrInvalidPriority)
	})
}

func TestParseEndDate(t *testing.T) {
	t.Parallel()

	t.Run("valid date", func(t *testing.T) {
		t.Parallel()
		d, err := ParseEndDate("2026-03-15")
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), *d)
	})

	t.Run("empty is nil", func(t *testing.T) {
		t.Parallel()
		d, err := ParseEndDate("")
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("malformed date", func(t *testing.T) {
		t.Parallel()
		_, err := ParseEndDate("15/03/2026")
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "end_date", vErr.Field)
	})
}
