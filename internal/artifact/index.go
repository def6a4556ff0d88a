// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"encoding/csv"
	"io"

	"github.com/pdiddy/powerdms-catalog/pkg/types"
)

// IndexHeader is the first row of the CSV index.
var IndexHeader = []string{"name", "url"}

// WriteIndex writes one header row and one row per document, in catalog
// order. Values are written as fetched; sentinels appear verbatim.
func WriteIndex(w io.Writer, cat types.Catalog) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(IndexHeader); err != nil {
		return err
	}
	for _, d := range cat {
		if err := cw.Write([]string{d.Name, d.PublicURL}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
