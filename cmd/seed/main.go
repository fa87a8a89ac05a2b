// seed creates the schema and the default permissions.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/percefons/auth-service/config"
	"github.com/percefons/auth-service/internal/infrastructure"
	ctxlog "github.com/percefons/auth-service/internal/log"
	"github.com/percefons/auth-service/internal/usecase"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := ctxlog.New(os.Stderr, cfg.Env, cfg.SlogLevel())

	store, err := infrastructure.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer store.Close()

	perms := usecase.NewPermissionUsecase(store.Permissions, store.UserPermissions, store.Users, logger)
	created, err := perms.SeedDefaults(ctx)
	if err != nil {
		store.Close()
		log.Fatalf("seed permissions: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	if len(created) == 0 {
		fmt.Println("  Default permissions were already present.")
		return
	}
	fmt.Printf("  Permissions created: %d\n", len(created))
	for _, p := range created {
		fmt.Printf("    %-12s %s\n", p.CodeName, p.Name)
	}
}
