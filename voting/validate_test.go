package voting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func colorPoll(t *testing.T) *Poll {
	t.Helper()
	poll, err := NewPoll([]PollOption{
		{Option: "red", Description: "the color red"},
		{Option: "blue", Description: "the color blue"},
		{Option: "green", Description: "the color green"},
		{Option: "purple", Description: "the color purple"},
		{Option: "orange", Description: "the color orange"},
	})
	require.NoError(t, err)
	return poll
}

func TestNewPollRejectsDuplicateOptions(t *testing.T) {
	_, err := NewPoll([]PollOption{
		{Option: "red"},
		{Option: "red"},
	})
	require.Error(t, err)
}

func TestVoteCost(t *testing.T) {
	require.EqualValues(t, 0, Vote{}.Cost())
	require.EqualValues(t, 97, Vote{"red": 9, "orange": 4}.Cost())
	require.EqualValues(t, 100, Vote{"red": 10}.Cost())
}

func TestValidate(t *testing.T) {
	poll := colorPoll(t)
	rules := DefaultRules()

	t.Run("within budget", func(t *testing.T) {
		vote := Vote{"red": 9, "orange": 4} // 81+16 = 97
		got, err := rules.Validate(poll, vote)
		require.NoError(t, err)
		require.True(t, got.Equal(vote))
	})

	t.Run("exactly at budget", func(t *testing.T) {
		_, err := rules.Validate(poll, Vote{"red": 10}) // 100
		require.NoError(t, err)
	})

	t.Run("overspent", func(t *testing.T) {
		// 81 alone is fine; combined with others the cost exceeds 100.
		vote := Vote{"purple": 9, "red": 3, "blue": 3, "green": 2} // 81+9+9+4 = 103
		_, err := rules.Validate(poll, vote)
		require.ErrorIs(t, err, ErrOverspent)
	})

	t.Run("foreign option", func(t *testing.T) {
		_, err := rules.Validate(poll, Vote{"chartreuse": 1})
		require.ErrorIs(t, err, ErrForeignOption)
	})

	t.Run("overspent wins over foreign", func(t *testing.T) {
		_, err := rules.Validate(poll, Vote{"chartreuse": 11})
		require.ErrorIs(t, err, ErrOverspent)
	})
}

func TestBudgetOneDegeneratesToOneVotePerOption(t *testing.T) {
	poll := colorPoll(t)
	rules := Rules{CreditBudget: 1}

	_, err := rules.Validate(poll, Vote{"red": 1})
	require.NoError(t, err)

	_, err = rules.Validate(poll, Vote{"red": 2})
	require.ErrorIs(t, err, ErrOverspent)

	_, err = rules.Validate(poll, Vote{"red": 1, "blue": 1})
	require.ErrorIs(t, err, ErrOverspent)
}

func TestHasForeignOption(t *testing.T) {
	poll := colorPoll(t)
	require.False(t, HasForeignOption(poll, Vote{"red": 1}))
	require.False(t, HasForeignOption(poll, Vote{}))
	require.True(t, HasForeignOption(poll, Vote{"red": 1, "cyan": 1}))
}
