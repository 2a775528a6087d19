package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Document is the export file layout.
type Document struct {
	Company    Company    `json:"company"`
	Accounting Accounting `json:"accounting"`
	Backup     Backup     `json:"backup"`
	User       User       `json:"user"`
	ExportDate time.Time  `json:"exportDate"`
}

// ExportFilename is the download name for an export taken at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("daybook-settings-%s.json", t.UTC().Format("2006-01-02"))
}

// Document builds the export document stamped with the form clock.
func (f *Form) Document() Document {
	return Document{
		Company:    f.s.Company,
		Accounting: f.s.Accounting,
		Backup:     f.s.Backup,
		User:       f.s.User,
		ExportDate: f.now(),
	}
}

// WriteExport writes the export document as indented JSON.
func (f *Form) WriteExport(w io.Writer) error {
	if err := writeDocument(w, f.Document()); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

func writeDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Export writes the export document into dir and returns the file path.
// The file is closed before Export returns.
func (f *Form) Export(dir string) (path string, err error) {
	if dir == "" {
		dir = "."
	}
	doc := f.Document()
	path = filepath.Join(dir, ExportFilename(doc.ExportDate))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &ExportError{Path: path, Err: err}
	}
	file, err := os.Create(path)
	if err != nil {
		return "", &ExportError{Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			path, err = "", &ExportError{Path: file.Name(), Err: cerr}
		}
	}()
	if err := writeDocument(file, doc); err != nil {
		return "", &ExportError{Path: path, Err: err}
	}
	f.log.Info("settings exported", zap.String("path", path))
	return path, nil
}
