package loader

import (
	"context"
)

// Format identifies the on-disk format of an uploaded document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatDoc  Format = "doc"
	FormatText Format = "text"
	FormatCSV  Format = "csv"
)

// DocumentFile represents one uploaded document that can be decoded to plain
// text for triple extraction. The actual content is retrieved through the
// associated FileLoader, so the same DocumentFile works for local files and
// object storage alike.
type DocumentFile struct {
	ID        string
	FilePath  string
	Format    Format
	MaxTokens int
	Loader    FileLoader
}

// GetText retrieves the plain-text content of the file using its Loader.
//
// Example:
//
//	text, err := file.GetText(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(string(text))
func (f *DocumentFile) GetText(ctx context.Context) ([]byte, error) {
	return f.Loader.GetFileText(ctx, *f)
}

// FileLoader decodes the contents of a DocumentFile to UTF-8 plain text.
// Implementations may read from disk, object storage, or wrap another
// loader to add format decoding.
type FileLoader interface {
	GetFileText(ctx context.Context, file DocumentFile) ([]byte, error)
}
