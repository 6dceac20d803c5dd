package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ribnys/hoon-quadratic-voting/protocol"
	"github.com/ribnys/hoon-quadratic-voting/testutil"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	roundID := NewRoundID()

	_, err := store.Outcome(ctx, roundID)
	assert.ErrorIs(t, err, ErrOutcomeNotFound)

	outcome := &protocol.Outcome{Result: testutil.SampleResult()}
	require.NoError(t, store.SaveOutcome(ctx, roundID, outcome))

	got, err := store.Outcome(ctx, roundID)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleResult(), got.Result)

	_, err = store.Outcome(ctx, NewRoundID())
	assert.ErrorIs(t, err, ErrOutcomeNotFound)
}
