// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumProfiles  int
	NumPosts     int
	NumScheduled int
	ShouldClean  bool
}

// Run populates the database with a social mesh: accounts with profiles, a
// follow graph, posts with likes and comments, and a handful of pending
// scheduled posts for the publisher to pick up.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.NumProfiles <= 0 {
		opts.NumProfiles = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = opts.NumProfiles * 5
	}
	if opts.NumScheduled < 0 {
		opts.NumScheduled = 0
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	profiles, err := createProfiles(db, opts.NumProfiles)
	if err != nil {
		return fmt.Errorf("profiles: %w", err)
	}
	if err := createFollowMesh(db, r, profiles); err != nil {
		return fmt.Errorf("follows: %w", err)
	}

	posts, err := createPosts(db, r, profiles, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("posts: %w", err)
	}
	if err := createEngagement(db, r, profiles, posts); err != nil {
		return fmt.Errorf("engagement: %w", err)
	}

	if opts.NumScheduled > 0 {
		if err := createScheduled(db, r, profiles, opts.NumScheduled); err != nil {
			return fmt.Errorf("scheduled: %w", err)
		}
	}

	log.Printf("Seeded %d profiles, %d posts, %d scheduled posts",
		len(profiles), len(posts), opts.NumScheduled)
	return nil
}

// Clean removes all seeded data. Order respects foreign keys.
func Clean(db *gorm.DB) error {
	for _, table := range []string{
		"likes", "comments", "scheduled_posts", "posts", "follows", "profiles", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createProfiles(db *gorm.DB, n int) ([]*models.Profile, error) {
	// One shared hash keeps seeding fast; every demo account logs in with the
	// same password.
	hashed, err := bcrypt.GenerateFromPassword([]byte("RipplePass12!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	profiles := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Email:    fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}

		profile := &models.Profile{
			UserID:   user.ID,
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Bio:      gofakeit.Sentence(10),
		}
		if err := db.Create(profile).Error; err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func createFollowMesh(db *gorm.DB, r *rand.Rand, profiles []*models.Profile) error {
	for _, p := range profiles {
		// Each profile follows roughly a third of the others.
		for _, other := range profiles {
			if other.ID == p.ID || r.Intn(3) != 0 {
				continue
			}
			follow := &models.Follow{FollowerID: p.ID, FolloweeID: other.ID}
			if err := db.Create(follow).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func createPosts(db *gorm.DB, r *rand.Rand, profiles []*models.Profile, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := profiles[r.Intn(len(profiles))]
		post := &models.Post{
			ProfileID: author.ID,
			Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
		}
		if r.Intn(4) == 0 {
			post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		}
		// Realistic created_at spread over the past 90 days.
		post.CreatedAt = time.Now().
			Add(-time.Duration(r.Intn(90*24)) * time.Hour).
			Add(-time.Duration(r.Intn(60)) * time.Minute)

		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createEngagement(db *gorm.DB, r *rand.Rand, profiles []*models.Profile, posts []*models.Post) error {
	for _, post := range posts {
		for _, p := range profiles {
			if p.ID == post.ProfileID {
				continue
			}
			if r.Intn(4) == 0 {
				like := &models.Like{ProfileID: p.ID, PostID: post.ID}
				if err := db.Create(like).Error; err != nil {
					return err
				}
			}
			if r.Intn(8) == 0 {
				comment := &models.Comment{
					ProfileID: p.ID,
					PostID:    post.ID,
					Content:   gofakeit.Sentence(8),
				}
				if err := db.Create(comment).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func createScheduled(db *gorm.DB, r *rand.Rand, profiles []*models.Profile, n int) error {
	for i := 0; i < n; i++ {
		author := profiles[r.Intn(len(profiles))]
		sched := &models.ScheduledPost{
			IdempotencyKey: gofakeit.UUID(),
			ProfileID:      author.ID,
			Content:        gofakeit.Paragraph(1, 2, 8, "\n"),
			ScheduledAt:    time.Now().Add(time.Duration(r.Intn(120)+1) * time.Minute).UTC(),
			Status:         models.ScheduleStatusPending,
		}
		if err := db.Create(sched).Error; err != nil {
			return err
		}
	}
	return nil
}
