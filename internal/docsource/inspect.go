package docsource

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info summarizes the structural state of a PDF before extraction.
type Info struct {
	Path      string
	Pages     int
	Encrypted bool
	Version   string
}

// Inspect reads the file's cross-reference structure with relaxed
// validation and reports page count and encryption. Encrypted documents
// cannot be extracted and should be rejected up front.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to determine page count: %w", err)
	}

	return &Info{
		Path:      path,
		Pages:     ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
		Version:   ctx.HeaderVersion.String(),
	}, nil
}
