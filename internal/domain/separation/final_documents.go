package separation

import (
	"database/sql/driver"
	"fmt"
	"path"
	"time"

	json "github.com/goccy/go-json"

	"separation-engine/internal/domain/document"
)

// FinalDocument is one HR-attached closing document.
type FinalDocument struct {
	Name       string     `json:"name"`
	Handle     string     `json:"handle"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

func (f FinalDocument) Ref() document.Ref {
	return document.Ref{Handle: f.Handle, Name: f.Name, UploadedAt: f.UploadedAt}
}

// FinalDocuments is stored as a JSON array. Older rows hold bare handle
// strings instead of objects; those decode with the handle's base name.
type FinalDocuments []FinalDocument

func (fd FinalDocuments) Value() (driver.Value, error) {
	if fd == nil {
		fd = FinalDocuments{}
	}
	b, err := json.Marshal([]FinalDocument(fd))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (fd *FinalDocuments) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*fd = FinalDocuments{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("final documents: unsupported column type %T", src)
	}
	out, err := decodeFinalDocuments(raw)
	if err != nil {
		return err
	}
	*fd = out
	return nil
}

func decodeFinalDocuments(raw []byte) (FinalDocuments, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return FinalDocuments{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("final documents: %w", err)
	}
	out := make(FinalDocuments, 0, len(items))
	for _, item := range items {
		var handle string
		if err := json.Unmarshal(item, &handle); err == nil {
			if handle != "" {
				out = append(out, FinalDocument{Name: path.Base(handle), Handle: handle})
			}
			continue
		}
		var doc FinalDocument
		if err := json.Unmarshal(item, &doc); err != nil {
			return nil, fmt.Errorf("final documents: %w", err)
		}
		if doc.Name == "" {
			doc.Name = path.Base(doc.Handle)
		}
		out = append(out, doc)
	}
	return out, nil
}
