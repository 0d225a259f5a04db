package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/realestate-api/config"
	"github.com/oksasatya/realestate-api/pkg/helpers"
)

type seedListing struct {
	address   string
	city      string
	state     string
	zip       string
	price     string
	bedrooms  int
	bathrooms string
	size      int
	desc      string
	status    string
	images    []string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "agent@example.com"
	password := "password123"
	name := "Demo Agent"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var ownerID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name, "").Scan(&ownerID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", ownerID, email, password)

	listings := []seedListing{
		{
			address: "114 Maple Street", city: "Austin", state: "TX", zip: "78701",
			price: "450000", bedrooms: 3, bathrooms: "2", size: 1850,
			desc: "Updated craftsman close to downtown.", status: "active",
			images: []string{"https://picsum.photos/seed/maple/1200/800"},
		},
		{
			address: "27 Ocean View Drive", city: "San Diego", state: "CA", zip: "92109",
			price: "1250000", bedrooms: 4, bathrooms: "3.5", size: 2900,
			desc: "Two blocks from the beach, renovated kitchen.", status: "active",
			images: []string{"https://picsum.photos/seed/ocean1/1200/800", "https://picsum.photos/seed/ocean2/1200/800"},
		},
		{
			address: "8 Birch Court", city: "Denver", state: "CO", zip: "80203",
			price: "610000", bedrooms: 2, bathrooms: "2", size: 1400,
			desc: "Townhome with mountain views.", status: "pending",
			images: nil,
		},
		{
			address: "501 Elm Avenue", city: "Austin", state: "TX", zip: "78704",
			price: "725000", bedrooms: 4, bathrooms: "2.5", size: 2300,
			desc: "South Congress bungalow with a large backyard.", status: "sold",
			images: nil,
		},
	}

	for _, l := range listings {
		var pid string
		err := db.QueryRow(`
			INSERT INTO properties (owner_id, address, city, state, zip_code, price, bedrooms, bathrooms, size, description, status)
			VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8::numeric, $9, $10, $11)
			RETURNING id
		`, ownerID, l.address, l.city, l.state, l.zip, l.price, l.bedrooms, l.bathrooms, l.size, l.desc, l.status).Scan(&pid)
		if err != nil {
			log.Fatalf("failed to seed property %q: %v", l.address, err)
		}
		for _, url := range l.images {
			if _, err := db.Exec(`INSERT INTO property_images (property_id, image_url) VALUES ($1, $2)`, pid, url); err != nil {
				log.Fatalf("failed to seed image for %q: %v", l.address, err)
			}
		}
		fmt.Printf("seeded property: id=%s address=%s status=%s\n", pid, l.address, l.status)
	}
}
