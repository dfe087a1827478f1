package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSnapshot_ContainsDemoAccounts(t *testing.T) {
	snap := Snapshot(Options{Users: 5, Dumpsters: 3, Wastelands: 3, Events: 2, MessagesPerEvent: 2})

	demo, ok := snap.Users.Get(DemoUserID)
	require.True(t, ok)
	assert.Equal(t, DemoUserEmail, demo.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(demo.Password), []byte(DemoUserPass)))

	second, ok := snap.Users.Get(SecondDemoUserID)
	require.True(t, ok)
	assert.Equal(t, SecondDemoUserEmail, second.Email)
}

func TestSnapshot_HonorsRequestedSizes(t *testing.T) {
	opts := Options{Users: 8, Dumpsters: 6, Wastelands: 7, Events: 4, MessagesPerEvent: 3}
	snap := Snapshot(opts)

	assert.Equal(t, opts.Users+2, snap.Users.Len(), "random users plus the two demo accounts")
	assert.Equal(t, opts.Dumpsters, snap.Dumpsters.Len())
	assert.Equal(t, opts.Wastelands, snap.Wastelands.Len())
	assert.Equal(t, opts.Events, snap.Events.Len())

	for _, id := range snap.Events.IDs() {
		log, ok := snap.Messages.Get(id)
		require.True(t, ok)
		assert.Len(t, log, opts.MessagesPerEvent)
	}
}

func TestSnapshot_ReferencesResolve(t *testing.T) {
	snap := Snapshot(DefaultOptions())

	for _, w := range snap.Wastelands.Values() {
		_, ok := snap.Users.Get(w.ReportedBy.ID)
		assert.True(t, ok, "wasteland %d reporter must exist", w.ID)
	}
	for _, d := range snap.Dumpsters.Values() {
		_, ok := snap.Users.Get(d.ReportedBy.ID)
		assert.True(t, ok, "dumpster %d reporter must exist", d.ID)
	}
	for _, e := range snap.Events.Values() {
		require.NotNil(t, e.Members)
		assert.Positive(t, e.Members.Len(), "event %d needs at least one member", e.ID)
		for _, ref := range e.Wastelands {
			_, ok := snap.Wastelands.Get(ref.ID)
			assert.True(t, ok, "event %d targets missing wasteland %d", e.ID, ref.ID)
		}
	}
}

func TestSnapshot_DemoUserHoldsInvitations(t *testing.T) {
	snap := Snapshot(Options{Users: 4, Events: 6, MessagesPerEvent: 1})

	pending, _ := snap.Invitations.Get(DemoUserID)
	for _, inv := range pending {
		e, ok := snap.Events.Get(inv.Event.ID)
		require.True(t, ok)
		assert.Equal(t, e.Name, inv.EventName)
		assert.False(t, e.IsMember(DemoUserID), "invited user must not already be a member")
	}
}
