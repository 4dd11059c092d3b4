package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/chessup-server/config"
	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/internal/container"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
	"github.com/oksasatya/chessup-server/internal/domain/repository"
	"github.com/oksasatya/chessup-server/pkg/helpers"
)

const demoPassword = "Kasparov-Topalov-1999!"

func demoUsers() []*entity.User {
	italian := &entity.Opening{
		Name: "Italian Game",
		Variations: []*entity.Variation{
			{Name: "Giuoco Piano"},
			{Name: "Evans Gambit", Subname: "Accepted"},
		},
		Comments: map[string]any{"Bc4": "eyes f7"},
		Extras:   map[string]any{"moves": []any{"e4", "e5", "Nf3", "Nc6", "Bc4"}},
	}
	sicilian := &entity.Opening{
		Name:       "Sicilian Defense",
		Variations: []*entity.Variation{{Name: "Najdorf"}, {Name: "Dragon", Archived: true}},
		Extras:     map[string]any{"moves": []any{"e4", "c5"}},
	}
	return []*entity.User{
		{Email: "coach@chessup.local", Language: "en", Settings: map[string]any{"sound": true}, UserOpenings: []*entity.Opening{italian, sicilian}},
		{Email: "student@chessup.local", Language: "en"},
	}
}

// seedUsers inserts the demo users that are not in the store yet, in one batch,
// and returns them alongside their new ids.
func seedUsers(ctx context.Context, repo repository.UserRepository, hasher application.PasswordHasher, users []*entity.User) ([]*entity.User, []string, error) {
	var fresh []*entity.User
	for _, u := range users {
		_, err := repo.FindByEmail(ctx, u.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("lookup %s: %w", u.Email, err)
		}
		hash, err := hasher.Hash(demoPassword)
		if err != nil {
			return nil, nil, err
		}
		u.Password = hash
		fresh = append(fresh, u)
	}
	if len(fresh) == 0 {
		return nil, nil, nil
	}
	ids, err := repo.InsertMany(ctx, fresh)
	return fresh, ids, err
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	c, err := container.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer c.Close()

	inserted, ids, err := seedUsers(ctx, c.Users, helpers.NewPasswordHasher(cfg.BcryptCost), demoUsers())
	if err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}
	if c.Service.Index != nil {
		for i, id := range ids {
			if err := c.Service.Index.IndexUser(ctx, id, inserted[i].Email); err != nil {
				logger.WithError(err).Warn("index seeded user failed")
			}
		}
	}

	all, err := c.Users.FindAll(ctx)
	if err != nil {
		log.Fatalf("failed to list users: %v", err)
	}
	fmt.Printf("seeded %d user(s), %d in store; password for demo accounts: %s\n", len(ids), len(all), demoPassword)
}
