// Package main provides a tool to seed the catalog with sample tags and books.
//
// Usage:
//
//	DATA_PATH=~/Bookshelf/data go run ./cmd/seed
//	go run ./cmd/seed -backend bolt -data ./data -reset
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/service"
	"github.com/listenupapp/bookshelf/internal/store/backend"
)

var sampleTags = []service.CreateTagRequest{
	{ID: "tag-classics", Label: "Classics"},
	{ID: "tag-scifi", Label: "Science Fiction"},
	{ID: "tag-mystery", Label: "Mystery"},
	{ID: "tag-italian", Label: "Italian"},
	{ID: "tag-russian", Label: "Russian"},
}

var sampleBooks = []service.BookRequest{
	{
		Title:     "The Name of the Rose",
		Author:    "Umberto Eco",
		Publisher: "Bompiani",
		Year:      "1980",
		Synopsis:  "A Franciscan friar investigates a series of deaths in an Italian abbey.",
		Image:     "https://covers.openlibrary.org/b/isbn/9780151446476-L.jpg",
		TagIDs:    []string{"tag-classics", "tag-mystery", "tag-italian"},
	},
	{
		Title:     "Invisible Cities",
		Author:    "Italo Calvino",
		Publisher: "Einaudi",
		Year:      "1972",
		Synopsis:  "Marco Polo describes fifty-five imagined cities to Kublai Khan.",
		Image:     "https://covers.openlibrary.org/b/isbn/9780156453806-L.jpg",
		TagIDs:    []string{"tag-classics", "tag-italian"},
	},
	{
		Title:     "Roadside Picnic",
		Author:    "Arkady and Boris Strugatsky",
		Publisher: "Macmillan",
		Year:      "1972",
		Synopsis:  "Stalkers smuggle artifacts out of a Zone left behind by alien visitors.",
		Image:     "https://covers.openlibrary.org/b/isbn/9781613743416-L.jpg",
		TagIDs:    []string{"tag-scifi", "tag-russian"},
	},
	{
		Title:     "The Master and Margarita",
		Author:    "Mikhail Bulgakov",
		Publisher: "YMCA Press",
		Year:      "1967",
		Synopsis:  "The Devil visits Soviet Moscow.",
		Image:     "https://covers.openlibrary.org/b/isbn/9780141180144-L.jpg",
		TagIDs:    []string{"tag-classics", "tag-russian"},
	},
	{
		Title:     "Solaris",
		Author:    "Stanisław Lem",
		Publisher: "MON",
		Year:      "1961",
		Synopsis:  "Scientists orbiting an ocean planet are visited by their own memories.",
		Image:     "https://covers.openlibrary.org/b/isbn/9780156027601-L.jpg",
		TagIDs:    []string{"tag-scifi"},
	},
}

func main() {
	kind := flag.String("backend", envOr("STORAGE_BACKEND", string(backend.Badger)), "Storage backend: badger, bolt, sqlite")
	dataPath := flag.String("data", envOr("DATA_PATH", os.ExpandEnv("$HOME/Bookshelf/data")), "Data directory")
	reset := flag.Bool("reset", false, "Clear the catalog before seeding")
	flag.Parse()

	k := backend.Kind(strings.ToLower(*kind))
	if !k.Valid() || k == backend.Memory {
		log.Fatalf("Unsupported backend %q", *kind)
	}

	fmt.Printf("Opening %s storage at: %s\n", k, backend.Path(k, *dataPath))

	blobs, err := backend.Open(k, *dataPath, logger.Discard().Logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer blobs.Close()

	ctx := context.Background()
	quiet := logger.Discard().Logger

	c, err := catalog.Open(ctx, blobs, quiet)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	if *reset {
		if err := c.Replace(ctx, nil, nil); err != nil {
			log.Fatalf("Failed to clear catalog: %v", err)
		}
		fmt.Println("Cleared existing catalog")
	}

	tags := service.NewTagService(c, quiet)
	books := service.NewBookService(c, quiet)

	createdTags := 0
	for _, req := range sampleTags {
		if _, ok := c.Tag(req.ID); ok {
			continue
		}
		if _, err := tags.CreateTag(ctx, req); err != nil {
			log.Fatalf("Failed to create tag %s: %v", req.ID, err)
		}
		createdTags++
	}

	existing := make(map[string]bool)
	for _, b := range c.RawBooks() {
		existing[b.Title] = true
	}

	createdBooks := 0
	for _, req := range sampleBooks {
		if existing[req.Title] {
			continue
		}
		book, err := books.CreateBook(ctx, req)
		if err != nil {
			log.Fatalf("Failed to create book %q: %v", req.Title, err)
		}
		fmt.Printf("  Created %s (%s)\n", book.Title, book.ID)
		createdBooks++
	}

	fmt.Println()
	fmt.Printf("Created %d tags and %d books\n", createdTags, createdBooks)
	fmt.Printf("Catalog now holds %d books and %d tags\n", len(c.RawBooks()), len(c.Tags()))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
