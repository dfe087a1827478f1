// Package seed builds fixture snapshots for first launches, development
// and tests.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"

	"wastewatch/internal/geo"
	"wastewatch/internal/models"
	"wastewatch/internal/storage"
)

// Fixed demo accounts present in every seeded store.
const (
	DemoUserID    = 99999
	DemoUserEmail = "abc@abc.com"
	DemoUserPass  = "123"

	SecondDemoUserID    = 99998
	SecondDemoUserEmail = "def@def.com"
	SecondDemoUserPass  = "456"
)

// Fixture coordinates cluster around this point so that seeded records
// land inside a believable map viewport.
var baseCoords = geo.Coordinates{Latitude: 51.7592, Longitude: 19.4560}

// Options sets how many random records of each kind to generate.
type Options struct {
	Users            int
	Dumpsters        int
	Wastelands       int
	Events           int
	MessagesPerEvent int
}

// DefaultOptions mirrors the first-launch fixture sizes.
func DefaultOptions() Options {
	return Options{Users: 30, Dumpsters: 20, Wastelands: 20, Events: 10, MessagesPerEvent: 5}
}

// Snapshot generates a fixture snapshot: the two fixed demo users plus
// random users, dumpsters, wastelands, events, invitations and messages.
func Snapshot(opts Options) *storage.Snapshot {
	f := newFactory()
	snap := storage.NewSnapshot()

	demo := f.demoUser(DemoUserID, "demo", DemoUserEmail, DemoUserPass)
	second := f.demoUser(SecondDemoUserID, "demo2", SecondDemoUserEmail, SecondDemoUserPass)

	users := make([]*models.User, 0, opts.Users+2)
	for i := 0; i < opts.Users; i++ {
		users = append(users, f.user(i))
	}
	users = append(users, demo, second)
	for _, u := range users {
		snap.Users.Put(u.ID, u)
	}

	for i := 0; i < opts.Dumpsters; i++ {
		d := f.dumpster(i, users)
		snap.Dumpsters.Put(d.ID, d)
	}
	for i := 0; i < opts.Wastelands; i++ {
		w := f.wasteland(i, users)
		snap.Wastelands.Put(w.ID, w)
	}
	for i := 0; i < opts.Events; i++ {
		e := f.event(i, users)
		snap.Events.Put(e.ID, e)
		for j := 0; j < opts.MessagesPerEvent; j++ {
			snap.AppendMessage(f.message(e, snap))
		}
		// every other event invites the demo account
		if i%2 == 0 && !e.IsMember(demo.ID) {
			snap.AddInvitation(models.Invitation{
				Event:     e.Ref(),
				EventName: e.Name,
				User:      demo.Ref(),
				AsAdmin:   i%4 == 0,
			})
		}
	}
	return snap
}

type factory struct {
	rng *rand.Rand
}

func newFactory() *factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &factory{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func hashPassword(plain string) string {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	return string(hashed)
}

func (f *factory) demoUser(id int, name, email, pass string) *models.User {
	return &models.User{
		ID:       id,
		Email:    email,
		Username: name,
		Password: hashPassword(pass),
		PhotoURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", name),
	}
}

func (f *factory) user(id int) *models.User {
	return &models.User{
		ID:                id,
		Email:             gofakeit.Email(),
		Username:          fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Password:          hashPassword("password123"),
		PhotoURL:          fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		ClearedWastelands: f.rng.Intn(8),
		DumpstersAdded:    f.rng.Intn(15),
		DumpstersDeleted:  f.rng.Intn(4),
	}
}

func (f *factory) place() models.Place {
	return models.Place{
		Coords: geo.Coordinates{
			Latitude:  baseCoords.Latitude + (f.rng.Float64()-0.5)*0.2,
			Longitude: baseCoords.Longitude + (f.rng.Float64()-0.5)*0.2,
		},
		Address: gofakeit.Street() + ", " + gofakeit.City(),
	}
}

func (f *factory) photos(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()))
	}
	return out
}

func (f *factory) pick(users []*models.User) *models.User {
	return users[f.rng.Intn(len(users))]
}

func (f *factory) dumpster(id int, users []*models.User) *models.Dumpster {
	return &models.Dumpster{
		ID:          id,
		Place:       f.place(),
		Description: gofakeit.Sentence(8),
		Photos:      f.photos(1 + f.rng.Intn(3)),
		ReportedBy:  f.pick(users).Ref(),
	}
}

func (f *factory) wasteland(id int, users []*models.User) *models.Wasteland {
	reporter := f.pick(users)
	w := &models.Wasteland{
		ID:           id,
		Place:        f.place(),
		Photos:       f.photos(1 + f.rng.Intn(3)),
		Description:  gofakeit.Sentence(10),
		CreatedAt:    models.At(time.Now().AddDate(0, 0, -f.rng.Intn(90))),
		ReportedBy:   reporter.Ref(),
		ReporterName: reporter.Username,
	}
	// roughly a third of seeded wastelands are already cleaned
	if f.rng.Intn(3) == 0 {
		cleaner := f.pick(users)
		w.AfterCleaning = &models.CleaningData{
			CleanedBy: []models.Ref{cleaner.Ref()},
			CleanedAt: models.At(time.Now().AddDate(0, 0, -f.rng.Intn(30))),
			Photos:    f.photos(1),
		}
	}
	return w
}

func (f *factory) event(id int, users []*models.User) *models.Event {
	start := time.Now().AddDate(0, 0, f.rng.Intn(60)-30)
	members := models.NewMemberList()
	admin := f.pick(users)
	members.Set(admin.ID, models.MemberInfo{IsAdmin: true})
	for i := 0; i < 2+f.rng.Intn(4); i++ {
		members.Set(f.pick(users).ID, models.MemberInfo{IsAdmin: false})
	}
	return &models.Event{
		ID:          id,
		Name:        fmt.Sprintf("%s cleanup", gofakeit.City()),
		IconURL:     fmt.Sprintf("https://picsum.photos/seed/icon-%s/128/128", gofakeit.UUID()),
		StartsAt:    models.At(start),
		EndsAt:      models.At(start.AddDate(0, 0, 1+f.rng.Intn(3))),
		Place:       f.place(),
		Description: gofakeit.Sentence(12),
		Members:     members,
		Wastelands:  nil,
	}
}

func (f *factory) message(e *models.Event, snap *storage.Snapshot) models.Message {
	ids := e.Members.IDs()
	sender := ids[f.rng.Intn(len(ids))]
	name := "unknown"
	photo := ""
	if u, ok := snap.Users.Get(sender); ok {
		name = u.Username
		photo = u.PhotoURL
	}
	return models.Message{
		Event:          e.Ref(),
		Content:        gofakeit.Sentence(6 + f.rng.Intn(8)),
		SentAt:         models.At(time.Now().Add(-time.Duration(f.rng.Intn(72)) * time.Hour)),
		Sender:         models.Ref{ID: sender, Kind: models.KindUser},
		SenderName:     name,
		SenderPhotoURL: photo,
	}
}
