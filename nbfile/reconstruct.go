package nbfile

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/daekeun-ml/ipynb-translator/extract"
)

// ---------------------------------------------------------------------------
// Record extraction
// ---------------------------------------------------------------------------

// Record pairs a cell's position in the notebook with its source text. The
// index refers to the notebook the records were extracted from and is how
// translations find their way back to the right cell.
type Record struct {
	Index  int
	Source string
}

// MarkdownRecords returns the markdown cells worth sending for translation,
// in document order.
func (nb *Notebook) MarkdownRecords() []Record {
	var records []Record
	for i, cell := range nb.Cells {
		if cell.Type != TypeMarkdown || cell.Source == "" {
			continue
		}
		if !extract.HasTranslatableContent(cell.Source) {
			continue
		}
		records = append(records, Record{Index: i, Source: cell.Source})
	}
	return records
}

// CodeRecords returns the code cells containing translatable comments, in
// document order.
func (nb *Notebook) CodeRecords() []Record {
	var records []Record
	for i, cell := range nb.Cells {
		if cell.Type != TypeCode || cell.Source == "" {
			continue
		}
		if !extract.HasTranslatableComments(cell.Source) {
			continue
		}
		records = append(records, Record{Index: i, Source: cell.Source})
	}
	return records
}

// Sources returns the record source texts in order.
func Sources(records []Record) []string {
	sources := make([]string, len(records))
	for i, rec := range records {
		sources[i] = rec.Source
	}
	return sources
}

// ---------------------------------------------------------------------------
// Reconstruction
// ---------------------------------------------------------------------------

// UpdateMarkdownCells builds a new notebook with the recorded markdown cells
// replaced by their translations. Every other cell is copied through
// unchanged, in order. records and translations must be parallel: a length
// mismatch is an error and no notebook is produced.
func UpdateMarkdownCells(nb *Notebook, records []Record, translations []string) (*Notebook, error) {
	if len(records) != len(translations) {
		return nil, fmt.Errorf("markdown cell mismatch: %d records, %d translations", len(records), len(translations))
	}
	return rebuild(nb, TypeMarkdown, records, translations), nil
}

// UpdateCodeCells builds a new notebook with the recorded code cells' source
// replaced by their comment-translated versions. Outputs and execution
// counters are carried over untouched. Same cardinality contract as
// UpdateMarkdownCells.
func UpdateCodeCells(nb *Notebook, records []Record, translations []string) (*Notebook, error) {
	if len(records) != len(translations) {
		return nil, fmt.Errorf("code cell mismatch: %d records, %d translations", len(records), len(translations))
	}
	return rebuild(nb, TypeCode, records, translations), nil
}

// rebuild walks the source notebook in order and produces a new notebook:
// cells whose index is recorded and whose type matches get the translated
// source, everything else is cloned verbatim.
func rebuild(nb *Notebook, cellType string, records []Record, translations []string) *Notebook {
	translated := make(map[int]string, len(records))
	for i, rec := range records {
		translated[rec.Index] = translations[i]
	}

	out := &Notebook{
		Cells:       make([]Cell, 0, len(nb.Cells)),
		Metadata:    cloneRawMap(nb.Metadata),
		Format:      nb.Format,
		FormatMinor: nb.FormatMinor,
		Extra:       cloneRawMap(nb.Extra),
	}
	for i, cell := range nb.Cells {
		next := cell.clone()
		if text, ok := translated[i]; ok && cell.Type == cellType {
			next.Source = text
		}
		out.Cells = append(out.Cells, next)
	}
	return out
}

// clone returns a deep enough copy: raw JSON values are shared (they are
// never mutated), containers are not.
func (c Cell) clone() Cell {
	out := c
	out.Extra = cloneRawMap(c.Extra)
	if c.ExecutionCount != nil {
		n := *c.ExecutionCount
		out.ExecutionCount = &n
	}
	if c.Outputs != nil {
		out.Outputs = make([]json.RawMessage, len(c.Outputs))
		copy(out.Outputs, c.Outputs)
	} else if c.Type == TypeCode {
		out.Outputs = []json.RawMessage{}
	}
	return out
}

func cloneRawMap(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ---------------------------------------------------------------------------
// Naming, validation, summary
// ---------------------------------------------------------------------------

// OutputName derives the output path for a translated notebook:
// <stem>_translated_<lang><ext> in the input's directory.
func OutputName(inputPath, lang string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(filepath.Dir(inputPath), fmt.Sprintf("%s_translated_%s%s", stem, lang, ext))
}

// Validate checks the notebook's structure. It reports the first defect as
// a message rather than an error: a missing cell type tag, an unrecognized
// tag, or a cell without a source field.
func Validate(nb *Notebook) (bool, string) {
	if nb == nil {
		return false, "notebook is nil"
	}
	for i, cell := range nb.Cells {
		if cell.Type == "" {
			return false, fmt.Sprintf("cell %d missing 'cell_type'", i)
		}
		switch cell.Type {
		case TypeMarkdown, TypeCode, TypeRaw:
		default:
			return false, fmt.Sprintf("cell %d has invalid cell_type: %s", i, cell.Type)
		}
		if cell.noSource {
			return false, fmt.Sprintf("cell %d missing 'source'", i)
		}
	}
	return true, "notebook validation passed"
}

// Kernel describes the notebook's kernelspec, when present.
type Kernel struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
}

// Info summarizes a notebook for display.
type Info struct {
	TotalCells           int
	CellCounts           map[string]int
	TranslatableMarkdown int
	TranslatableCode     int
	Format               int
	FormatMinor          int
	Kernel               *Kernel
}

// Summarize computes display information about the notebook.
func (nb *Notebook) Summarize() Info {
	info := Info{
		TotalCells:           len(nb.Cells),
		CellCounts:           make(map[string]int),
		TranslatableMarkdown: len(nb.MarkdownRecords()),
		TranslatableCode:     len(nb.CodeRecords()),
		Format:               nb.Format,
		FormatMinor:          nb.FormatMinor,
	}
	for _, cell := range nb.Cells {
		info.CellCounts[cell.Type]++
	}
	if raw, ok := nb.Metadata["kernelspec"]; ok {
		var k Kernel
		if err := json.Unmarshal(raw, &k); err == nil {
			info.Kernel = &k
		}
	}
	return info
}
