package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastewatch/internal/models"
	"wastewatch/internal/notifications"
)

func TestEndpoint_OwnMutationsStaySilent(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)

	var received []models.Notification
	listener := notifications.NewListener(func(n models.Notification) {
		received = append(received, n)
	})
	require.NoError(t, a.Listeners().Register(listener, notifications.Filter{Location: &lodz}))

	_, err := a.CreateDumpster(context.Background(), DumpsterCreate{
		Place:       models.Place{Coords: lodz, Address: "Nawrot 3"},
		Description: "bins",
	})
	require.NoError(t, err)
	assert.Empty(t, received, "the acting user never hears its own mutation")
}

func TestEndpoint_FailedMutationLeavesStateUntouched(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "bob@example.com", bobPass)
	ctx := context.Background()

	desc := "hijacked"
	_, err := a.UpdateDumpster(ctx, 0, DumpsterUpdate{Description: &desc})
	require.True(t, models.IsCode(err, models.CodeUserNotAuthorized))

	entity, err := a.GetOne(ctx, models.Ref{ID: 0, Kind: models.KindDumpster})
	require.NoError(t, err)
	assert.Equal(t, "overflowing bins behind the bakery", entity.(*models.Dumpster).Description)
}

func TestEndpoint_LoginGateRunsBeforeEverything(t *testing.T) {
	a := newTestAPI(t)

	// no session: even a read-only operation short-circuits
	_, err := a.GetEventMessages(context.Background(), 0, All())
	assert.True(t, models.IsCode(err, models.CodeUserNotAuthorized))
}
