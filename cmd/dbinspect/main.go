// Package main prints the stored catalog: both raw collections, the resolved
// view and any tag references missing from the registry.
//
// Usage:
//
//	DATA_PATH=~/Bookshelf/data go run ./cmd/dbinspect
//	go run ./cmd/dbinspect -backend sqlite -data ./data -title rose
//
// Stop the server first when inspecting a badger or bolt directory; both
// hold an exclusive lock.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/store/backend"
	"github.com/listenupapp/bookshelf/internal/store/sqlite"
	"github.com/listenupapp/bookshelf/internal/view"
)

func main() {
	kind := flag.String("backend", envOr("STORAGE_BACKEND", string(backend.Badger)), "Storage backend: badger, bolt, sqlite")
	dataPath := flag.String("data", envOr("DATA_PATH", os.ExpandEnv("$HOME/Bookshelf/data")), "Data directory")
	title := flag.String("title", "", "Only show books whose title contains this text")
	query := flag.String("q", "", "Only show books matching this query expression")
	flag.Parse()

	k := backend.Kind(strings.ToLower(*kind))
	if !k.Valid() || k == backend.Memory {
		log.Fatalf("Unsupported backend %q", *kind)
	}

	blobs, err := backend.Open(k, *dataPath, logger.Discard().Logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer blobs.Close()

	c, err := catalog.Open(context.Background(), blobs, logger.Discard().Logger)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	fmt.Println("=== Catalog Inspection ===")
	fmt.Printf("Backend: %s (%s)\n", k, backend.Path(k, *dataPath))
	if db, ok := blobs.(*sqlite.Store); ok {
		if last, err := db.Checkpoint(context.Background()); err == nil && !last.IsZero() {
			fmt.Printf("Last write: %s\n", last.Local().Format(time.RFC1123))
		}
	}
	fmt.Println()

	usage := c.TagUsage()
	fmt.Println("=== Tags ===")
	for _, t := range c.Tags() {
		fmt.Printf("  %-24s %-30q books: %d\n", t.ID, t.Label, usage[t.ID])
	}
	fmt.Println()

	books, err := c.Find(view.Criteria{Title: *title, Query: *query})
	if err != nil {
		log.Fatalf("Invalid filter: %v", err)
	}

	raw := make(map[string][]string, len(c.RawBooks()))
	for _, b := range c.RawBooks() {
		raw[b.ID] = b.TagIDs
	}

	fmt.Println("=== Books ===")
	for _, b := range books {
		labels := make([]string, len(b.Tags))
		for i, t := range b.Tags {
			labels[i] = t.Label
		}
		fmt.Printf("Book: %s\n", b.Title)
		fmt.Printf("  ID: %s\n", b.ID)
		fmt.Printf("  Author: %s (%s, %s)\n", b.Author, b.Publisher, b.Year)
		fmt.Printf("  Tag IDs: %s\n", strings.Join(raw[b.ID], ", "))
		fmt.Printf("  Resolved tags: %s\n", strings.Join(labels, ", "))
	}
	fmt.Println()

	dangling := c.DanglingTagIDs()

	fmt.Println("=== Summary ===")
	fmt.Printf("Total books: %d\n", len(c.RawBooks()))
	fmt.Printf("Shown books: %d\n", len(books))
	fmt.Printf("Total tags: %d\n", len(c.Tags()))
	fmt.Printf("Dangling tag IDs: %d\n", len(dangling))
	for _, id := range dangling {
		fmt.Printf("  %s\n", id)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
