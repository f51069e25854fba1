// Command seed runs the database seeder for Storyforge.
package main

import (
	"flag"
	"log"

	"storyforge/internal/config"
	"storyforge/internal/database"
	"storyforge/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	charsPerUser := flag.Int("characters", 4, "Characters per user")
	storiesPerUser := flag.Int("stories", 2, "Stories per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d characters each, %d stories each, clean=%v\n",
		*numUsers, *charsPerUser, *storiesPerUser, *shouldClean)

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:          *numUsers,
		CharactersPerUser: *charsPerUser,
		StoriesPerUser:    *storiesPerUser,
		ShouldClean:       *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo data.")
	log.Println("📧 All seeded users have the password: password123")
}
