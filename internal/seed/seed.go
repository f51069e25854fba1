// Package seed populates the database with demo data for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"storyforge/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers          int
	CharactersPerUser int
	StoriesPerUser    int
	ShouldClean       bool
}

var traitPool = []string{
	"brave", "curious", "loyal", "cunning", "stubborn", "gentle",
	"reckless", "patient", "ambitious", "secretive", "cheerful",
	"melancholic", "sarcastic", "honorable", "vengeful", "naive",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users...", opts.NumUsers)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ Created %d users", len(users))

	characters, err := createCharacters(db, users, opts.CharactersPerUser)
	if err != nil {
		return fmt.Errorf("failed to create characters: %w", err)
	}
	log.Printf("✓ Created %d characters", len(characters))

	storyCount, err := createStories(db, users, characters, opts.StoriesPerUser)
	if err != nil {
		return fmt.Errorf("failed to create stories: %w", err)
	}
	log.Printf("✓ Created %d stories", storyCount)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")

	// Stories reference characters by ID, so remove them first.
	if err := db.Exec("DELETE FROM stories").Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM characters").Error; err != nil {
		return err
	}
	return db.Exec("DELETE FROM users").Error
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		user := models.User{
			Name:     name,
			Email:    fmt.Sprintf("%s%d@example.com", strings.ToLower(gofakeit.Username()), i),
			Password: string(hashedPassword),
		}

		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func createCharacters(db *gorm.DB, users []models.User, perUser int) ([]models.Character, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	characters := make([]models.Character, 0, len(users)*perUser)

	for _, user := range users {
		for i := 0; i < perUser; i++ {
			numTraits := r.Intn(3) + 1
			traits := make([]string, 0, numTraits)
			for _, idx := range r.Perm(len(traitPool))[:numTraits] {
				traits = append(traits, traitPool[idx])
			}

			character := models.Character{
				Name:        gofakeit.FirstName() + " " + gofakeit.LastName(),
				Description: gofakeit.Sentence(12),
				Traits:      traits,
				UserID:      user.ID,
			}

			// Roughly half the characters get a backstory, the rest
			// exercise the empty-backstory path.
			if r.Float32() < 0.5 {
				character.Backstory = gofakeit.Paragraph(1, 3, 8, " ")
			}

			if err := db.Create(&character).Error; err != nil {
				return nil, err
			}
			characters = append(characters, character)
		}
	}

	return characters, nil
}

func createStories(db *gorm.DB, users []models.User, characters []models.Character, perUser int) (int, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	count := 0

	byOwner := make(map[uint][]models.Character)
	for _, c := range characters {
		byOwner[c.UserID] = append(byOwner[c.UserID], c)
	}

	for _, user := range users {
		owned := byOwner[user.ID]
		if len(owned) == 0 {
			continue
		}

		for i := 0; i < perUser; i++ {
			numChars := r.Intn(len(owned)) + 1
			ids := make([]uint, 0, numChars)
			for _, idx := range r.Perm(len(owned))[:numChars] {
				ids = append(ids, owned[idx].ID)
			}

			storyType := models.StoryTypes[r.Intn(len(models.StoryTypes))]
			story := models.Story{
				Title:        gofakeit.BookTitle(),
				Content:      gofakeit.Paragraph(4, 5, 12, "\n\n"),
				Prompt:       fmt.Sprintf("Seeded %s story for demo purposes", storyType),
				StoryType:    storyType,
				CharacterIDs: ids,
				UserID:       user.ID,
			}

			if err := db.Create(&story).Error; err != nil {
				return count, err
			}
			count++
		}
	}

	return count, nil
}
