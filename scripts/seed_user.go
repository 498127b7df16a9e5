package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/khoahotran/profile-hub/pkg/auth"
)

func main() {
	fmt.Println("adding user into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	dsn := os.Getenv("DB_DSN")
	seedEmail := os.Getenv("SEED_EMAIL")
	seedPassword := os.Getenv("SEED_PASSWORD")
	if dsn == "" || seedEmail == "" || seedPassword == "" {
		log.Fatal("DB_DSN, SEED_EMAIL and SEED_PASSWORD are required")
	}

	var seedName *string
	if name := os.Getenv("SEED_NAME"); name != "" {
		seedName = &name
	}

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	query := `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    name = COALESCE(EXCLUDED.name, users.name),
		    updated_at = NOW()
	`
	_, err = pool.Exec(context.Background(), query, seedEmail, hash, seedName)
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added or updated user '%s' successfully!\n", seedEmail)
}
