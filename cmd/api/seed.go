package main

import (
	"log"
	"os"

	"lendingapi/internal/catalog"
	"lendingapi/internal/identity"

	"github.com/joho/godotenv"
)

func godotenvLoad() error {
	return godotenv.Load(".env.local")
}

// newCatalogStore builds the catalog, optionally seeded with the demo
// titles so the API is usable out of the box.
func newCatalogStore(seedDemo bool) *catalog.Store {
	if !seedDemo {
		return catalog.NewStore()
	}
	return catalog.NewStore(
		catalog.Book{ID: "1", Title: "Clean Code", Author: "Robert C. Martin", Copies: 3},
		catalog.Book{ID: "2", Title: "The Pragmatic Programmer", Author: "Andy Hunt", Copies: 2},
		catalog.Book{ID: "3", Title: "You Don't Know JS", Author: "Kyle Simpson", Copies: 1},
	)
}

// newDirectory builds the identity directory. Demo accounts take their
// passwords from env so no credentials live in the source.
func newDirectory(seedDemo bool) *identity.Directory {
	if !seedDemo {
		return identity.NewDirectory()
	}

	adminPassword := getEnv("SEED_ADMIN_PASSWORD", "Admin1234")
	memberPassword := getEnv("SEED_MEMBER_PASSWORD", "Member1234")

	adminHash, err := identity.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("cannot hash seed password: %v", err)
	}
	memberHash, err := identity.HashPassword(memberPassword)
	if err != nil {
		log.Fatalf("cannot hash seed password: %v", err)
	}

	if os.Getenv("SEED_ADMIN_PASSWORD") == "" {
		log.Printf("seed admin account using default password, set SEED_ADMIN_PASSWORD to override")
	}

	return identity.NewDirectory(
		identity.User{ID: "admin-1", Name: "Admin", Email: "admin@library.local", Password: adminHash, Role: identity.RoleAdmin},
		identity.User{ID: "member-1", Name: "Member", Email: "member@library.local", Password: memberHash, Role: identity.RoleUser},
	)
}
