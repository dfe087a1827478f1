// Command seed regenerates the fixture blob, replacing whatever the
// target file holds.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"

	"wastewatch/internal/seed"
	"wastewatch/internal/storage"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of random users to create")
	numDumpsters := flag.Int("dumpsters", 20, "Number of dumpsters to create")
	numWastelands := flag.Int("wastelands", 20, "Number of wastelands to create")
	numEvents := flag.Int("events", 10, "Number of events to create")
	out := flag.String("out", "wastewatch.json", "Output blob path")
	flag.Parse()

	log.Printf("Seeding %d users, %d dumpsters, %d wastelands, %d events -> %s",
		*numUsers, *numDumpsters, *numWastelands, *numEvents, *out)

	snap := seed.Snapshot(seed.Options{
		Users:            *numUsers,
		Dumpsters:        *numDumpsters,
		Wastelands:       *numWastelands,
		Events:           *numEvents,
		MessagesPerEvent: seed.DefaultOptions().MessagesPerEvent,
	})

	data, err := json.Marshal(snap)
	if err != nil {
		log.Fatalf("Failed to encode snapshot: %v", err)
	}

	blob := storage.NewFileBlob(*out)
	if err := blob.Save(context.Background(), data); err != nil {
		log.Fatalf("Failed to write blob: %v", err)
	}
	log.Printf("Wrote %d bytes", len(data))
}
