package db

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// SeedDemoUsers creates the demo client and driver accounts when they are
// missing. Credentials come from the environment so a fresh database is usable
// right away.
func SeedDemoUsers(database *Database) {
	seedUser(database, os.Getenv("DEMO_CLIENT_USERNAME"), os.Getenv("DEMO_CLIENT_PASSWORD"), "client")
	seedUser(database, os.Getenv("DEMO_DRIVER_USERNAME"), os.Getenv("DEMO_DRIVER_PASSWORD"), "driver")
}

func seedUser(database *Database, username, password, role string) {
	if username == "" || password == "" {
		return
	}

	var count int
	err := database.ExecQueryRow(context.Background(),
		"SELECT COUNT(*) FROM users WHERE username = $1", username).Scan(&count)
	if err != nil {
		log.Fatal(err)
	}
	if count > 0 {
		log.Printf("User %s already exists", username)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	_, err = database.Exec(context.Background(),
		"INSERT INTO users (id, username, password, role) VALUES (gen_random_uuid(), $1, $2, $3)",
		username, string(hashed), role)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Seeded %s user %s", role, username)
}
