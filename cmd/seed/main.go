package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"eventgate.io/eventgate/core"
	"eventgate.io/eventgate/model"
)

// Seeds the schema plus a small demo guest list so the scanner can be tried
// against a fresh database.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DSN")
	if dsn == "" {
		log.Fatal("DSN is required")
	}

	dm, err := core.New(dsn, 2, core.LogLevelInfo)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Migrate(); err != nil {
		log.Fatal(err)
	}

	names := []string{
		"Ana Torres", "Bruno Díaz", "Carla Fuentes", "Diego Rojas",
		"Elena Soto", "Felipe Muñoz", "Gabriela Pinto", "Hernán Vargas",
	}

	db := dm.DB(context.Background())
	created := 0
	for i, name := range names {
		code := fmt.Sprintf("DEMO-%s", strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]))
		email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
		table := i/2 + 1

		guest := model.Guest{
			ScanCode:    code,
			Name:        name,
			Email:       &email,
			TableNumber: &table,
		}
		if err := db.Create(&guest).Error; err != nil {
			log.Fatalf("create guest %s: %v", name, err)
		}
		created++
		fmt.Printf("%-16s %s\n", code, name)
	}

	fmt.Printf("seeded %d guests\n", created)
}
