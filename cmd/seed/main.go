// Command main seeds the database with demo data.
package main

import (
	"flag"
	"log"

	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/seed"
)

func main() {
	numProfiles := flag.Int("profiles", 20, "number of profiles to create")
	numPosts := flag.Int("posts", 100, "number of posts to create")
	numScheduled := flag.Int("scheduled", 5, "number of pending scheduled posts to create")
	clean := flag.Bool("clean", false, "delete existing data first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumProfiles:  *numProfiles,
		NumPosts:     *numPosts,
		NumScheduled: *numScheduled,
		ShouldClean:  *clean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
