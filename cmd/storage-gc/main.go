package main

import (
	"fmt"
	"log"
	"os"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/controller/file"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
)

// Removes bucket objects no files row references anymore. Replaced uploads
// delete their old object inline; this sweep catches objects orphaned when
// the process died between upload and row update.
func main() {
	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		log.Fatal("STORAGE_BUCKET is not set")
	}

	storage, err := file.NewCloudStorageClient(bucket)
	if err != nil {
		log.Fatalf("Failed to create cloud storage client: %s", err)
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %s", err)
	}

	var referenced []string
	if err := db.Model(&model.File{}).
		Where("storage_object_name IS NOT NULL").
		Pluck("storage_object_name", &referenced).Error; err != nil {
		log.Fatalf("Failed to read referenced objects: %s", err)
	}

	keep := make(map[string]bool, len(referenced))
	for _, name := range referenced {
		keep[name] = true
	}

	deleted := 0
	for _, prefix := range []string{file.ResumeObjectPrefix, file.LogoObjectPrefix} {
		names, err := storage.ListFiles(prefix)
		if err != nil {
			log.Fatalf("Failed to list objects under %s: %s", prefix, err)
		}

		for _, name := range names {
			if keep[name] {
				continue
			}
			if err := storage.DeleteFile(name); err != nil {
				log.Printf("Failed to delete %s: %s", name, err)
				continue
			}
			fmt.Println("deleted", name)
			deleted++
		}
	}

	fmt.Printf("done, %d orphaned object(s) removed\n", deleted)
}
