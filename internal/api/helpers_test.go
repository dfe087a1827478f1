package api

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"wastewatch/internal/geo"
	"wastewatch/internal/models"
	"wastewatch/internal/storage"
)

// Fixture accounts.
const (
	aliceID   = 1
	bobID     = 2
	carolID   = 3
	alicePass = "hunter2"
	bobPass   = "swordfish"
)

var (
	lodz    = geo.Coordinates{Latitude: 51.7592, Longitude: 19.4560}
	faraway = geo.Coordinates{Latitude: 51.9392, Longitude: 19.4560} // ~20 km north
)

func testHash(t *testing.T, pass string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

// fixtureSnapshot builds a small deterministic world:
//
//	alice reported dumpster 0 and wastelands 0 (active) and 2 (active, far
//	away); bob reported wasteland 1, already cleaned. Event 0 is running
//	with alice as admin and bob as member; event 1 ended ten days ago with
//	bob as its only admin. Alice holds an admin invitation to event 1.
func fixtureSnapshot(t *testing.T) *storage.Snapshot {
	t.Helper()
	snap := storage.NewSnapshot()

	alice := &models.User{
		ID: aliceID, Email: "alice@example.com", Username: "alice",
		Password: testHash(t, alicePass), ClearedWastelands: 5,
	}
	bob := &models.User{
		ID: bobID, Email: "bob@example.com", Username: "bob",
		Password: testHash(t, bobPass), ClearedWastelands: 1, DumpstersAdded: 1,
	}
	carol := &models.User{
		ID: carolID, Email: "carol@example.com", Username: "carol",
		Password: testHash(t, "letmein"),
	}
	snap.Users.Put(alice.ID, alice)
	snap.Users.Put(bob.ID, bob)
	snap.Users.Put(carol.ID, carol)

	snap.Dumpsters.Put(0, &models.Dumpster{
		ID:          0,
		Place:       models.Place{Coords: lodz, Address: "Piotrkowska 1"},
		Description: "overflowing bins behind the bakery",
		ReportedBy:  alice.Ref(),
	})

	snap.Wastelands.Put(0, &models.Wasteland{
		ID:           0,
		Place:        models.Place{Coords: lodz, Address: "Piotrkowska 1"},
		Description:  "tires by the fence",
		CreatedAt:    models.Now(),
		ReportedBy:   alice.Ref(),
		ReporterName: alice.Username,
	})
	snap.Wastelands.Put(1, &models.Wasteland{
		ID:           1,
		Place:        models.Place{Coords: lodz, Address: "Zachodnia 12"},
		Description:  "construction rubble",
		CreatedAt:    models.Now(),
		ReportedBy:   bob.Ref(),
		ReporterName: bob.Username,
		AfterCleaning: &models.CleaningData{
			CleanedBy: []models.Ref{bob.Ref()},
			CleanedAt: models.Now(),
		},
	})
	snap.Wastelands.Put(2, &models.Wasteland{
		ID:           2,
		Place:        models.Place{Coords: faraway, Address: "Northern field"},
		Description:  "scattered bottles",
		CreatedAt:    models.Now(),
		ReportedBy:   alice.Ref(),
		ReporterName: alice.Username,
	})

	running := models.NewMemberList()
	running.Set(aliceID, models.MemberInfo{IsAdmin: true})
	running.Set(bobID, models.MemberInfo{})
	snap.Events.Put(0, &models.Event{
		ID:       0,
		Name:     "Riverbank cleanup",
		StartsAt: models.At(time.Now().AddDate(0, 0, -1)),
		EndsAt:   models.At(time.Now().AddDate(0, 0, 1)),
		Place:    models.Place{Coords: lodz, Address: "Riverbank"},
		Members:  running,
		// the second ref dangles on purpose
		Wastelands: []models.Ref{
			{ID: 0, Kind: models.KindWasteland},
			{ID: 77, Kind: models.KindWasteland},
		},
	})

	past := models.NewMemberList()
	past.Set(bobID, models.MemberInfo{IsAdmin: true})
	snap.Events.Put(1, &models.Event{
		ID:       1,
		Name:     "Old park cleanup",
		StartsAt: models.At(time.Now().AddDate(0, 0, -12)),
		EndsAt:   models.At(time.Now().AddDate(0, 0, -10)),
		Place:    models.Place{Coords: lodz, Address: "Old park"},
		Members:  past,
	})

	snap.AddInvitation(models.Invitation{
		Event:     models.Ref{ID: 1, Kind: models.KindEvent},
		EventName: "Old park cleanup",
		User:      alice.Ref(),
		AsAdmin:   true,
	})

	snap.AppendMessage(models.Message{
		Event:      models.Ref{ID: 0, Kind: models.KindEvent},
		Content:    "meet at the bridge",
		SentAt:     models.Now(),
		Sender:     alice.Ref(),
		SenderName: alice.Username,
	})
	snap.AppendMessage(models.Message{
		Event:      models.Ref{ID: 0, Kind: models.KindEvent},
		Content:    "bring gloves",
		SentAt:     models.Now(),
		Sender:     bob.Ref(),
		SenderName: bob.Username,
	})
	return snap
}

func newTestAPI(t *testing.T) *API {
	t.Helper()
	return newTestAPIWith(t, func() *storage.Snapshot { return fixtureSnapshot(t) })
}

func newTestAPIWith(t *testing.T, seed func() *storage.Snapshot) *API {
	t.Helper()
	blob := storage.NewFileBlob(filepath.Join(t.TempDir(), "state.json"))
	store, err := storage.Open(context.Background(), blob, storage.Options{
		SessionSecret: "test-secret",
		Seed:          seed,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, Options{})
}

func timeDaysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

func timeDaysAhead(n int) time.Time {
	return time.Now().AddDate(0, 0, n)
}

func loginAs(t *testing.T, a *API, email, pass string) *models.User {
	t.Helper()
	user, err := a.Login(context.Background(), Credentials{Email: email, Password: pass})
	require.NoError(t, err)
	return user
}
