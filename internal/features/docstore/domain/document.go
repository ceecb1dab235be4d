package domain

import (
	"errors"
	"fmt"
)

// ErrDocumentNotFound is returned when no document exists for an application.
var ErrDocumentNotFound = errors.New("document not found")

// Kind selects which family of documents a store serves.
type Kind string

const (
	KindSchema Kind = "schema"
	KindValues Kind = "values"
)

// FileName is the on-disk name of the document for app.
func (k Kind) FileName(app string) string {
	switch k {
	case KindSchema:
		return app + ".schema.json"
	case KindValues:
		return app + ".value.json"
	default:
		return fmt.Sprintf("%s.%s.json", app, k)
	}
}

// NotFoundMessage is the body text returned by a document server on a miss.
func (k Kind) NotFoundMessage() string {
	switch k {
	case KindSchema:
		return "Schema not found"
	case KindValues:
		return "Values not found"
	default:
		return "Document not found"
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindSchema || k == KindValues
}
