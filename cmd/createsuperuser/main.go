// createsuperuser registers an active staff account holding every permission.
// Run: go run ./cmd/createsuperuser -username root -email root@example.com
// The password is read from stdin (first line) so it stays out of shell history.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/percefons/auth-service/config"
	"github.com/percefons/auth-service/internal/domain"
	"github.com/percefons/auth-service/internal/email"
	"github.com/percefons/auth-service/internal/infrastructure"
	ctxlog "github.com/percefons/auth-service/internal/log"
	"github.com/percefons/auth-service/internal/password"
	"github.com/percefons/auth-service/internal/token"
	"github.com/percefons/auth-service/internal/usecase"
)

func main() {
	username := flag.String("username", "", "superuser username (required)")
	emailAddr := flag.String("email", "", "superuser email (optional)")
	flag.Parse()

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := ctxlog.New(os.Stderr, cfg.Env, cfg.SlogLevel())

	fmt.Fprint(os.Stderr, "Password: ")
	plain, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && plain == "" {
		log.Fatalf("read password: %v", err)
	}
	plain = strings.TrimRight(plain, "\r\n")

	ctx := context.Background()
	store, err := infrastructure.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer store.Close()

	hasher, err := password.New(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		store.Close()
		log.Fatalf("password hasher: %v", err)
	}
	tokens, err := token.New(token.Config{
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		Algorithm:     cfg.JWTAlgorithm,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
	})
	if err != nil {
		store.Close()
		log.Fatalf("token service: %v", err)
	}

	perms := usecase.NewPermissionUsecase(store.Permissions, store.UserPermissions, store.Users, logger)
	auth := usecase.NewAuthUsecase(store.Users, hasher, tokens, perms, email.NewLogSender(logger), logger)

	user, err := auth.CreateSuperuser(ctx, usecase.RegisterInput{
		Username: *username,
		Password: plain,
		Email:    *emailAddr,
	})
	if err != nil {
		store.Close()
		var fe *domain.FieldError
		if errors.As(err, &fe) {
			log.Fatalf("%s: %s", fe.Field, fe.Message)
		}
		log.Fatalf("create superuser: %v", err)
	}

	fmt.Printf("Superuser %q created (id %d) with %d permissions.\n", user.Username, user.ID, len(user.Permissions))
}
