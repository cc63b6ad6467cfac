package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/krjofficial/mern-ecomm/internal/domain/model"
	"github.com/krjofficial/mern-ecomm/internal/security"
)

// Prints a bcrypt hash, or with -email an INSERT seeding an admin principal.
func main() {
	password := flag.String("password", "", "plain password")
	email := flag.String("email", "", "admin email; prints a seed statement when set")
	name := flag.String("name", "Admin", "admin display name")
	flag.Parse()

	if strings.TrimSpace(*password) == "" {
		log.Fatal("use -password to pass plain password")
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	addr := model.NormalizeEmail(*email)
	if addr == "" {
		fmt.Println(hash)
		return
	}

	fmt.Printf(
		"INSERT INTO users (id, email, password_hash, name, role) VALUES (gen_random_uuid(), '%s', '%s', '%s', 'admin') ON CONFLICT (email) DO UPDATE SET role = 'admin', password_hash = EXCLUDED.password_hash;\n",
		quoteSQL(addr), hash, quoteSQL(strings.TrimSpace(*name)),
	)
}

func quoteSQL(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}
