package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"pws-mentor-be/internal/bootstrap"
	"pws-mentor-be/internal/config"
	"pws-mentor-be/internal/dto"
	"pws-mentor-be/pkg/database"
	"pws-mentor-be/pkg/framework"
)

// Seeds the knowledge base with one document per catalog framework and waits
// for the embedding consumer to index them.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	container := bootstrap.NewContainer(db, cfg)

	ctx := context.Background()
	go func() {
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Consumer error: %v", err)
		}
	}()

	color.Cyan("Seeding framework knowledge base...")

	catalog := framework.NewCatalog()
	seeded := 0
	for _, f := range catalog.All() {
		req := &dto.IngestDocumentRequest{
			Title:       f.Title,
			Content:     frameworkDocument(f),
			Source:      "catalog:" + f.ID,
			FrameworkId: f.ID,
		}

		res, err := container.KnowledgeService.IngestDocument(ctx, req)
		if err != nil {
			color.Red("Failed to ingest %s: %v", f.ID, err)
			continue
		}
		color.Green("Ingested %s (%d chunks)", f.ID, res.ChunkCount)
		seeded++
	}

	// Give the embedding consumer time to drain the queue.
	color.Cyan("Waiting for embeddings...")
	time.Sleep(10 * time.Second)

	count, err := container.KnowledgeService.CountChunks(ctx)
	if err != nil {
		log.Fatalf("Error: Failed to count chunks: %v", err)
	}

	color.Green("Done: %d frameworks seeded, %d chunks stored.", seeded, count)
}

// frameworkDocument renders one framework as a retrievable document.
func frameworkDocument(f framework.Framework) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n", f.Title, f.Definition)

	if len(f.Prerequisites) > 0 {
		fmt.Fprintf(&b, "\nApply this after: %s.\n", strings.Join(f.Prerequisites, ", "))
	}
	if len(f.Alternatives) > 0 {
		fmt.Fprintf(&b, "\nRelated frameworks: %s.\n", strings.Join(f.Alternatives, ", "))
	}
	return b.String()
}
