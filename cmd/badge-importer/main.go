// cmd/badge-importer imports a badge catalog from a JSON file into the
// database, skipping badges that already exist by name. Useful for
// shipping seasonal catalogs without redeploying.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"arise/database"
	"arise/models"

	"github.com/joho/godotenv"
)

type catalogEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Tier        string          `json:"tier"`
	Icon        string          `json:"icon"`
	Criteria    json.RawMessage `json:"criteria"`
}

func main() {
	path := flag.String("file", "./badges.json", "path to the badge catalog JSON")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	db := database.GetDB()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read catalog file: %v", err)
	}

	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Fatalf("Failed to parse catalog file: %v", err)
	}

	imported, skipped := 0, 0
	for _, entry := range entries {
		badge := models.Badge{
			Name:        entry.Name,
			Description: entry.Description,
			Tier:        entry.Tier,
			Icon:        entry.Icon,
			Criteria:    string(entry.Criteria),
		}

		// Reject descriptors the evaluator would never satisfy.
		if badge.DecodeCriteria().Kind == models.CriteriaUnknown {
			log.Printf("Skipping %q: unparsable criteria", entry.Name)
			skipped++
			continue
		}

		var existing int64
		db.Model(&models.Badge{}).Where("name = ?", entry.Name).Count(&existing)
		if existing > 0 {
			skipped++
			continue
		}

		if err := db.Create(&badge).Error; err != nil {
			log.Fatalf("Failed to insert badge %q: %v", entry.Name, err)
		}
		imported++
	}

	log.Printf("Imported %d badges (%d skipped)", imported, skipped)
}
