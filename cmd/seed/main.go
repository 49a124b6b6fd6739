// Command main runs the database seeder for NicheHub.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"

	"nichehub/internal/config"
	"nichehub/internal/database"
	"nichehub/internal/middleware"
	"nichehub/internal/models"
	"nichehub/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 20, "Number of demo users to create")
	numPosts := flag.Int("posts", 100, "Number of demo posts to create")
	likeRatio := flag.Float64("likes", 0.3, "Probability that a given user likes a given post")
	communitiesOnly := flag.Bool("communities-only", false, "Seed community records only, no demo data")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitMiddleware(cfg)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()

	// Community records first: reconciliation and every post write depend
	// on them.
	communities, err := seed.Communities(ctx, db)
	if err != nil {
		log.Fatalf("❌ Community seeding failed: %v", err)
	}
	log.Printf("Communities ready: %d records\n", len(communities))

	if *communitiesOnly {
		log.Println("✨ All done! Community records are in place.")
		return
	}

	factory := seed.NewFactory(db)

	users := make([]*models.User, 0, *numUsers)
	for i := 0; i < *numUsers; i++ {
		user, err := factory.CreateUser(ctx, "password123")
		if err != nil {
			log.Fatalf("❌ User seeding failed: %v", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users\n", len(users))

	posts := make([]*models.Post, 0, *numPosts)
	for i := 0; i < *numPosts; i++ {
		user := users[rand.Intn(len(users))]
		community := communities[rand.Intn(len(communities))]
		post, err := factory.CreatePost(ctx, user, community, 30)
		if err != nil {
			log.Fatalf("❌ Post seeding failed: %v", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts\n", len(posts))

	likes := 0
	for _, post := range posts {
		for _, user := range users {
			if rand.Float64() >= *likeRatio {
				continue
			}
			if err := factory.CreateLike(ctx, user, post); err != nil {
				log.Fatalf("❌ Like seeding failed: %v", err)
			}
			likes++
		}
	}
	log.Printf("Created %d likes\n", likes)

	log.Println("✨ All done! Your database is now populated with demo data.")
	log.Println("📧 All demo users have the password: password123")
}
