package app

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/dshills/copyline/internal/dispatcher/handlers/file"
	"github.com/dshills/copyline/internal/host/memhost"
)

// Document is the open file and the view editing it.
type Document struct {
	// Path is empty for a scratch buffer.
	Path string
	View *memhost.View

	// savedAt is the transaction count at the last load or save.
	savedAt int
}

// OpenDocument loads path through fm. A missing file opens as an empty
// document that is created on first save.
func OpenDocument(fm file.FileManager, path string) (*Document, error) {
	content, err := fm.OpenFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return &Document{Path: path, View: memhost.New(content)}, nil
}

// NewScratchDocument creates an unnamed empty document.
func NewScratchDocument() *Document {
	return &Document{View: memhost.New("")}
}

// Name is the base name of the path, or "[scratch]".
func (d *Document) Name() string {
	if d.Path == "" {
		return "[scratch]"
	}
	return filepath.Base(d.Path)
}

// IsModified reports whether edits were made since the last save.
func (d *Document) IsModified() bool {
	return len(d.View.Transactions()) != d.savedAt
}

// MarkSaved records the current state as saved.
func (d *Document) MarkSaved() {
	d.savedAt = len(d.View.Transactions())
}
