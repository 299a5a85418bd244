package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("seeding default profile into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	DSN := os.Getenv("DB_DSN")
	OWNER_NAME := os.Getenv("OWNER_NAME")
	OWNER_TITLE := os.Getenv("OWNER_TITLE")
	if OWNER_NAME == "" {
		OWNER_NAME = "Your Name"
	}
	if OWNER_TITLE == "" {
		OWNER_TITLE = "Software Engineer"
	}

	pool, err := pgxpool.New(context.Background(), DSN)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	var count int
	err = pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		log.Fatalf("cannot check profiles: %v", err)
	}
	if count > 0 {
		fmt.Println("a profile already exists, nothing to do.")
		return
	}

	query := `
		INSERT INTO profiles (name, title)
		VALUES ($1, $2)
	`
	_, err = pool.Exec(context.Background(), query, OWNER_NAME, OWNER_TITLE)
	if err != nil {
		log.Fatalf("cannot add profile: %v", err)
	}

	fmt.Printf("seeded profile '%s' successfully!\n", OWNER_NAME)
}
