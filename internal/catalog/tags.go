package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/id"
)

// AddTag appends a tag with a fresh ID.
func (c *Catalog) AddTag(ctx context.Context, label string) (domain.Tag, error) {
	return c.AddTagWithID(ctx, domain.Tag{Label: label})
}

// AddTagWithID appends tag, keeping its ID if one is set. An empty ID is
// replaced by a fresh one. ErrTagExists is returned if the ID is taken.
func (c *Catalog) AddTagWithID(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.tags.Get()
	taken := func(candidate string) bool {
		return domain.IndexOfTag(current, candidate) >= 0
	}

	if tag.ID == "" {
		tagID, err := id.GenerateUnique(id.PrefixTag, taken)
		if err != nil {
			return domain.Tag{}, err
		}
		tag.ID = tagID
	} else if taken(tag.ID) {
		return domain.Tag{}, fmt.Errorf("%w: %s", ErrTagExists, tag.ID)
	}

	_, err := c.tags.Update(ctx, func(prev []domain.Tag) []domain.Tag {
		return append(slices.Clip(prev), tag)
	})
	if err != nil {
		return domain.Tag{}, err
	}
	c.gen++

	return tag, nil
}

// UpdateTag sets the label of a tag. It reports false, writing nothing, if
// no tag has the ID.
func (c *Catalog) UpdateTag(ctx context.Context, tagID, label string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if domain.IndexOfTag(c.tags.Get(), tagID) < 0 {
		return false, nil
	}

	_, err := c.tags.Update(ctx, func(prev []domain.Tag) []domain.Tag {
		next := slices.Clone(prev)
		next[domain.IndexOfTag(next, tagID)].Label = label
		return next
	})
	if err != nil {
		return false, err
	}
	c.gen++

	c.indexBooks(ctx, c.booksWithTag(tagID))
	return true, nil
}

// DeleteTag removes a tag from the registry. Books keep the ID in their tag
// IDs. It reports false, writing nothing, if no tag has the ID.
func (c *Catalog) DeleteTag(ctx context.Context, tagID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if domain.IndexOfTag(c.tags.Get(), tagID) < 0 {
		return false, nil
	}

	_, err := c.tags.Update(ctx, func(prev []domain.Tag) []domain.Tag {
		return slices.DeleteFunc(slices.Clone(prev), func(t domain.Tag) bool {
			return t.ID == tagID
		})
	})
	if err != nil {
		return false, err
	}
	c.gen++

	c.indexBooks(ctx, c.booksWithTag(tagID))
	return true, nil
}

// TagUsage returns how many books reference each tag ID in the registry.
func (c *Catalog) TagUsage() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	usage := make(map[string]int, len(c.tags.Get()))
	for _, t := range c.tags.Get() {
		usage[t.ID] = 0
	}
	for _, b := range c.books.Get() {
		for _, tagID := range slices.Compact(slices.Sorted(slices.Values(b.TagIDs))) {
			if _, ok := usage[tagID]; ok {
				usage[tagID]++
			}
		}
	}
	return usage
}

func (c *Catalog) booksWithTag(tagID string) []domain.RawBook {
	var out []domain.RawBook
	for _, b := range c.books.Get() {
		if b.HasTag(tagID) {
			out = append(out, b)
		}
	}
	return out
}
