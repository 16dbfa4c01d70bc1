// Initializes the database and seeds the first admin account.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	dbfs "github.com/permitdesk/permitdesk/db"
	"github.com/permitdesk/permitdesk/internal/config"
	"github.com/permitdesk/permitdesk/internal/db"
	"github.com/permitdesk/permitdesk/internal/repository/sqlite"
	"github.com/permitdesk/permitdesk/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	adminName := flag.String("admin-name", "Administrator", "Name for the seeded admin user")
	adminEmail := flag.String("admin-email", "", "Email for the seeded admin user (skipped when empty)")
	adminPassword := flag.String("admin-password", "", "Password for the seeded admin user")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	if *adminEmail != "" {
		if *adminPassword == "" {
			fmt.Fprintln(os.Stderr, "admin-password is required when admin-email is set")
			os.Exit(1)
		}

		repo := sqlite.New(database, nil)
		existing, err := repo.GetByEmail(ctx, *adminEmail)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Admin lookup error: %v\n", err)
			os.Exit(1)
		}
		if existing == nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Password hash error: %v\n", err)
				os.Exit(1)
			}
			admin := models.User{
				Name:         *adminName,
				Email:        *adminEmail,
				Role:         models.RoleAdmin,
				Approved:     true,
				PasswordHash: string(hash),
			}
			if _, err := repo.CreateUser(ctx, &admin); err != nil {
				fmt.Fprintf(os.Stderr, "Admin create error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Seeded admin user %s.\n", *adminEmail)
		}
	}

	fmt.Println("Database initialized successfully.")
}
