package domain

// Tag is a user-defined label attachable to many books.
// ID is assigned at creation and never changes; Label is free text and
// need not be unique.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// TagIDs extracts the IDs of tags, preserving order.
// The result is never nil so it serializes as [].
func TagIDs(tags []Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// IndexOfTag returns the position of the tag with the given ID, or -1.
func IndexOfTag(tags []Tag, tagID string) int {
	for i, t := range tags {
		if t.ID == tagID {
			return i
		}
	}
	return -1
}
