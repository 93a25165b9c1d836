package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityStartsEmpty(t *testing.T) {
	tr := NewIdentity()
	assert.Equal(t, StateNone, tr.State())
	assert.Empty(t, tr.Active())
	assert.Empty(t, tr.Confirmed())
}

func TestIdentityConfirmPromotes(t *testing.T) {
	tr := NewIdentity()
	require.True(t, tr.MarkLocalPending("local-1"))
	assert.Equal(t, StateLocalPending, tr.State())
	assert.Equal(t, "local-1", tr.Active())

	require.True(t, tr.Confirm("srv-9"))
	assert.Equal(t, StateConfirmed, tr.State())
	assert.Equal(t, "srv-9", tr.Active())
	assert.Equal(t, "srv-9", tr.Confirmed())
}

func TestIdentityConfirmIsSticky(t *testing.T) {
	tr := NewIdentity()
	require.True(t, tr.Confirm("srv-1"))

	// A second confirmation never demotes or replaces the first while the
	// session stays selected.
	assert.False(t, tr.Confirm("srv-2"))
	assert.Equal(t, "srv-1", tr.Confirmed())

	assert.False(t, tr.MarkLocalPending("local-1"))
	assert.Equal(t, StateConfirmed, tr.State())
}

func TestIdentityMarkLocalPendingOnlyFromNone(t *testing.T) {
	tr := NewIdentity()
	require.True(t, tr.MarkLocalPending("local-1"))
	assert.False(t, tr.MarkLocalPending("local-2"))
	assert.Equal(t, "local-1", tr.Active())
}

func TestIdentitySelectReplacesAndInvalidates(t *testing.T) {
	tr := NewIdentity()
	tr.MarkLocalPending("local-1")
	_, gen := tr.Snapshot()

	tr.Select("srv-5")
	assert.Equal(t, StateConfirmed, tr.State())
	assert.Equal(t, "srv-5", tr.Active())

	_, after := tr.Snapshot()
	assert.NotEqual(t, gen, after, "select must invalidate in-flight requests")
}

func TestIdentityResetClearsEverything(t *testing.T) {
	tr := NewIdentity()
	tr.Select("srv-5")
	gen := tr.Generation()

	tr.Reset()
	assert.Equal(t, StateNone, tr.State())
	assert.Empty(t, tr.Active())
	assert.NotEqual(t, gen, tr.Generation())
}

func TestIdentityStateString(t *testing.T) {
	assert.Equal(t, "none", StateNone.String())
	assert.Equal(t, "local-pending", StateLocalPending.String())
	assert.Equal(t, "confirmed", StateConfirmed.String())
}
