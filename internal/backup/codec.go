package backup

import (
	"bytes"
	"encoding/json/v2"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// Format is a backup serialization format.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// Valid returns true if the format is recognized.
func (f Format) Valid() bool {
	return f == FormatJSON || f == FormatMsgpack
}

// Ext returns the file extension used for the format.
func (f Format) Ext() string {
	if f == FormatMsgpack {
		return ".msgpack"
	}
	return ".json"
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatMsgpack {
		return "application/vnd.msgpack"
	}
	return "application/json"
}

// Encode serializes doc.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.Marshal(doc)
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		enc.UseCompactInts(true)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode msgpack: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode parses a backup. An empty format is detected from the content.
//
// Besides Documents, JSON input may be a browser localStorage dump whose
// BOOKS and TAGS entries hold the collections as JSON strings.
func Decode(data []byte, format Format) (*Document, error) {
	if format == "" {
		format = Detect(data)
	}

	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatMsgpack:
		var doc Document
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return &doc, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Detect guesses the format of data: JSON if it starts with an object,
// MessagePack otherwise.
func Detect(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatMsgpack
}

// localStorageDump is the shape of window.localStorage exported as JSON.
type localStorageDump struct {
	Books *string `json:"BOOKS"`
	Tags  *string `json:"TAGS"`
}

func decodeJSON(data []byte) (*Document, error) {
	var dump localStorageDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if dump.Books != nil || dump.Tags != nil {
		return fromLocalStorage(dump)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

func fromLocalStorage(dump localStorageDump) (*Document, error) {
	doc := &Document{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Tags:       []domain.Tag{},
		Books:      []domain.RawBook{},
	}

	if dump.Tags != nil {
		if err := json.Unmarshal([]byte(*dump.Tags), &doc.Tags); err != nil {
			return nil, fmt.Errorf("%w: TAGS: %v", ErrInvalidDocument, err)
		}
	}
	if dump.Books != nil {
		if err := json.Unmarshal([]byte(*dump.Books), &doc.Books); err != nil {
			return nil, fmt.Errorf("%w: BOOKS: %v", ErrInvalidDocument, err)
		}
	}

	doc.Counts = EntityCounts{Books: len(doc.Books), Tags: len(doc.Tags)}
	return doc, nil
}
