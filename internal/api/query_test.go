package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastewatch/internal/geo"
	"wastewatch/internal/models"
)

func TestPaginate_WindowsPartitionTheResult(t *testing.T) {
	items := []int{10, 11, 12, 13, 14}

	first := paginate(items, Range{From: 0, To: 2})
	second := paginate(items, Range{From: 2, To: 4})
	third := paginate(items, Range{From: 4, To: 6})

	assert.Equal(t, []int{10, 11}, first.Items)
	assert.Equal(t, []int{12, 13}, second.Items)
	assert.Equal(t, []int{14}, third.Items)
	assert.Equal(t, 5, first.TotalLength)
	assert.True(t, first.HasMore())
	assert.False(t, third.HasMore())
}

func TestPaginate_ClampsOutOfBoundsWindows(t *testing.T) {
	items := []string{"a", "b"}

	assert.Empty(t, paginate(items, Range{From: 10, To: 20}).Items)
	assert.Equal(t, []string{"a", "b"}, paginate(items, Range{From: -3, To: 99}).Items)
	assert.Empty(t, paginate(items, Range{From: 1, To: 0}).Items)
}

func TestPaginate_NegativeToMeansUnbounded(t *testing.T) {
	items := []int{1, 2, 3}

	page := paginate(items, All())
	assert.Equal(t, items, page.Items)
	assert.False(t, page.HasMore())

	tail := paginate(items, Range{From: 1, To: -1})
	assert.Equal(t, []int{2, 3}, tail.Items)
}

func TestGetOne_UnknownKindIsInvalid(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)

	_, err := a.GetOne(context.Background(), models.Ref{ID: 0, Kind: "comet"})
	assert.True(t, models.IsCode(err, models.CodeInvalidDataProvided))
}

func TestGetOne_DanglingRefIsNotFound(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)

	_, err := a.GetOne(context.Background(), models.Ref{ID: 404, Kind: models.KindWasteland})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestGetUsers_SortedByRankDescending(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)

	page, err := a.GetUsers(context.Background(), UserFilter{}, All())
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	for i := 1; i < len(page.Items); i++ {
		assert.GreaterOrEqual(t, page.Items[i-1].Rank(), page.Items[i].Rank())
	}
	assert.Equal(t, "alice", page.Items[0].Username)
}

func TestGetUsers_PhraseMatchesEmailOrUsername(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)
	ctx := context.Background()

	page, err := a.GetUsers(ctx, UserFilter{Phrase: "bob@"}, All())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "bob", page.Items[0].Username)

	// matching is case-sensitive
	page, err = a.GetUsers(ctx, UserFilter{Phrase: "CAROL"}, All())
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestGetWastelands_ActiveOnlySkipsCleanedSites(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)
	ctx := context.Background()

	all, err := a.GetWastelands(ctx, WastelandFilter{}, All())
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalLength)

	active, err := a.GetWastelands(ctx, WastelandFilter{ActiveOnly: true}, All())
	require.NoError(t, err)
	assert.Equal(t, 2, active.TotalLength)
	for _, w := range active.Items {
		assert.True(t, w.Active())
	}
}

func TestGetWastelands_ViewportIsScaledUp(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)

	// faraway sits ~0.18 degrees north of this viewport's edge, still
	// outside even after the 10% growth; lodz is inside
	viewport := geo.Region{
		MinLatitude: 51.70, MaxLatitude: 51.80,
		MinLongitude: 19.40, MaxLongitude: 19.50,
	}
	page, err := a.GetWastelands(context.Background(), WastelandFilter{Region: &viewport}, All())
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalLength)

	// a viewport ending just short of faraway picks it up once scaled
	near := geo.Region{
		MinLatitude: 51.50, MaxLatitude: 51.93,
		MinLongitude: 19.40, MaxLongitude: 19.50,
	}
	page, err = a.GetWastelands(context.Background(), WastelandFilter{Region: &near}, All())
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalLength)
}

func TestGetDumpsters_PhraseAndRegion(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)
	ctx := context.Background()

	page, err := a.GetDumpsters(ctx, DumpsterFilter{Phrase: "bakery"}, All())
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalLength)

	elsewhere := geo.Region{MinLatitude: 0, MaxLatitude: 1, MinLongitude: 0, MaxLongitude: 1}
	page, err = a.GetDumpsters(ctx, DumpsterFilter{Region: &elsewhere}, All())
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestGetEvents_OnlyMine(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "carol@example.com", "letmein")
	ctx := context.Background()

	page, err := a.GetEvents(ctx, EventFilter{OnlyMine: true}, All())
	require.NoError(t, err)
	assert.Empty(t, page.Items, "carol belongs to no event")

	loginAs(t, a, "bob@example.com", bobPass)
	page, err = a.GetEvents(ctx, EventFilter{OnlyMine: true}, All())
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalLength)
}

func TestGetEvents_ActiveOnlySplitsByEndDate(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)
	ctx := context.Background()

	active := true
	page, err := a.GetEvents(ctx, EventFilter{ActiveOnly: &active}, All())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Riverbank cleanup", page.Items[0].Name)

	over := false
	page, err = a.GetEvents(ctx, EventFilter{ActiveOnly: &over}, All())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Old park cleanup", page.Items[0].Name)
}

func TestGetEvents_SortedByStartDescending(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)

	page, err := a.GetEvents(context.Background(), EventFilter{}, All())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Riverbank cleanup", page.Items[0].Name, "newest start first")
}

func TestGetEvents_DateRangeContainsWholeEvent(t *testing.T) {
	a := newTestAPI(t)
	loginAs(t, a, "alice@example.com", alicePass)
	ctx := context.Background()

	// a window covering only part of event 0 excludes it
	narrow := &DateRange{
		From: models.At(timeDaysAgo(0)),
		To:   models.At(timeDaysAhead(3)),
	}
	page, err := a.GetEvents(ctx, EventFilter{DateRange: narrow}, All())
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	wide := &DateRange{
		From: models.At(timeDaysAgo(2)),
		To:   models.At(timeDaysAhead(2)),
	}
	page, err = a.GetEvents(ctx, EventFilter{DateRange: wide}, All())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Riverbank cleanup", page.Items[0].Name)
}

func TestQueries_RequireLogin(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	_, err := a.GetUsers(ctx, UserFilter{}, All())
	assert.True(t, models.IsCode(err, models.CodeUserNotAuthorized))

	_, err = a.GetWastelands(ctx, WastelandFilter{}, All())
	assert.True(t, models.IsCode(err, models.CodeUserNotAuthorized))

	_, err = a.GetOne(ctx, models.Ref{ID: 0, Kind: models.KindDumpster})
	assert.True(t, models.IsCode(err, models.CodeUserNotAuthorized))
}
