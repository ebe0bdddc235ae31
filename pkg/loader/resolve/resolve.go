package resolve

import (
	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/loader"
	"github.com/stratakg/strata/pkg/loader/csv"
	"github.com/stratakg/strata/pkg/loader/doc"
	"github.com/stratakg/strata/pkg/loader/pdf"
)

// DocumentFile builds a DocumentFile for the given path, detecting the
// format and wrapping the byte source with the matching decoding loader.
// The source loader supplies raw bytes (local filesystem or S3).
func DocumentFile(id string, path string, maxTokens int, source loader.FileLoader) (loader.DocumentFile, error) {
	format, err := loader.DetectFormat(path)
	if err != nil {
		return loader.DocumentFile{}, err
	}

	if id == "" {
		id = util.NewID()
	}

	file := loader.DocumentFile{
		ID:        id,
		FilePath:  path,
		Format:    format,
		MaxTokens: maxTokens,
		Loader:    source,
	}

	switch format {
	case loader.FormatPDF:
		file.Loader = pdf.NewPDFFileLoader(source)
	case loader.FormatDocx, loader.FormatDoc:
		file.Loader = doc.NewDocFileLoader(source)
	case loader.FormatCSV:
		file.Loader = csv.NewCSVFileLoader(source)
	}

	return file, nil
}
