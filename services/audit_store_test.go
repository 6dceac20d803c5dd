package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ribnys/hoon-quadratic-voting/protocol"
	"github.com/ribnys/hoon-quadratic-voting/testutil"
)

func openTestAuditStore(t *testing.T) *AuditStore {
	t.Helper()
	store, err := OpenAuditStore(filepath.Join(t.TempDir(), "receipts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func castTestReceipt(t *testing.T) *protocol.CastReceipt {
	t.Helper()
	cfg := testutil.NewTestConfig()
	poll := testutil.SamplePoll()

	initial, _, err := protocol.Start(cfg, poll)
	require.NoError(t, err)

	_, receipt, err := protocol.Cast(cfg, initial, testutil.SampleVotes()[0])
	require.NoError(t, err)
	return receipt
}

func TestAuditStoreRoundTrip(t *testing.T) {
	store := openTestAuditStore(t)
	receipt := castTestReceipt(t)
	roundID := NewRoundID()

	_, err := store.Receipt(roundID)
	assert.ErrorIs(t, err, ErrReceiptNotFound)

	require.NoError(t, store.SaveReceipt(roundID, receipt))

	got, err := store.Receipt(roundID)
	require.NoError(t, err)
	assert.Equal(t, receipt.Key.String(), got.Key.String())
	assert.Equal(t, receipt.Secret, got.Secret)
	assert.Equal(t, receipt.Signature, got.Signature)
	assert.Equal(t, receipt.Insurance, got.Insurance)
	assert.True(t, receipt.Vote.Equal(got.Vote))

	rounds, err := store.Rounds()
	require.NoError(t, err)
	assert.Equal(t, []RoundID{roundID}, rounds)
}

func TestAuditStoreRefusesSecondReceipt(t *testing.T) {
	store := openTestAuditStore(t)
	receipt := castTestReceipt(t)
	roundID := NewRoundID()

	require.NoError(t, store.SaveReceipt(roundID, receipt))
	assert.Error(t, store.SaveReceipt(roundID, receipt))
}

func TestAuditStoreReceiptSupportsReveal(t *testing.T) {
	store := openTestAuditStore(t)
	receipt := castTestReceipt(t)
	roundID := NewRoundID()

	require.NoError(t, store.SaveReceipt(roundID, receipt))

	// A stored receipt must still open its insurance commitment.
	got, err := store.Receipt(roundID)
	require.NoError(t, err)
	ok, err := protocol.VerifyInsurance(got.Insurance, got.Secret, got.Signature, got.StateDigest, testutil.SamplePoll(), got.Vote)
	require.NoError(t, err)
	assert.True(t, ok)
}
