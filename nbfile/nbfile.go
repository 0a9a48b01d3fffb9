// Package nbfile implements reading, writing, and rebuilding of Jupyter
// notebook (.ipynb) files.
//
// Notebooks are JSON files with a specific structure:
//
//   - "cells" holds an ordered list of cells, each tagged by "cell_type"
//     (markdown, code, or raw) and carrying a "source" as a string or a
//     list of lines.
//   - Code cells additionally carry "execution_count" (a number or null)
//     and "outputs" (a list of output objects, possibly empty).
//   - "metadata", "nbformat", and "nbformat_minor" describe the notebook
//     itself and are copied verbatim into any derived notebook.
//
// Round-trip fidelity: cell keys this package does not model (id,
// attachments, ...) and all metadata values are preserved byte for byte.
// Cell order is never altered.
package nbfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cell types.
const (
	TypeMarkdown = "markdown"
	TypeCode     = "code"
	TypeRaw      = "raw"
)

// ---------------------------------------------------------------------------
// Notebook model
// ---------------------------------------------------------------------------

// Cell is one ordered unit of a notebook.
type Cell struct {
	// Type is the cell type tag: TypeMarkdown, TypeCode, or TypeRaw.
	Type string
	// Source is the cell's source text, lines joined.
	Source string
	// Metadata is the cell's metadata object, opaque to this package.
	Metadata json.RawMessage
	// ExecutionCount is a code cell's execution counter; nil when the cell
	// has not run. Ignored for other cell types.
	ExecutionCount *int
	// Outputs is a code cell's output log, each entry preserved verbatim.
	// Never nil for parsed code cells. Ignored for other cell types.
	Outputs []json.RawMessage
	// Extra preserves cell keys this package does not model.
	Extra map[string]json.RawMessage

	// noSource marks a parsed cell that carried no "source" key at all,
	// which Validate reports as a structural defect.
	noSource bool
}

// Notebook represents a parsed .ipynb file.
type Notebook struct {
	// Cells holds the notebook's cells in document order.
	Cells []Cell
	// Metadata maps top-level metadata keys (kernelspec, language_info, ...)
	// to their verbatim values.
	Metadata map[string]json.RawMessage
	// Format and FormatMinor are the nbformat version numbers, copied
	// through without interpretation.
	Format      int
	FormatMinor int
	// Extra preserves top-level keys this package does not model.
	Extra map[string]json.RawMessage
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a notebook from disk.
func ParseFile(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return nb, nil
}

// Parse parses notebook content from a byte slice.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("parsing notebook: %w", err)
	}
	return &nb, nil
}

// UnmarshalJSON decodes a notebook, keeping unmodeled keys in Extra.
func (nb *Notebook) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	nb.Extra = map[string]json.RawMessage{}
	for key, val := range raw {
		switch key {
		case "cells":
			if err := json.Unmarshal(val, &nb.Cells); err != nil {
				return fmt.Errorf("cells: %w", err)
			}
		case "metadata":
			if err := json.Unmarshal(val, &nb.Metadata); err != nil {
				return fmt.Errorf("metadata: %w", err)
			}
		case "nbformat":
			if err := json.Unmarshal(val, &nb.Format); err != nil {
				return fmt.Errorf("nbformat: %w", err)
			}
		case "nbformat_minor":
			if err := json.Unmarshal(val, &nb.FormatMinor); err != nil {
				return fmt.Errorf("nbformat_minor: %w", err)
			}
		default:
			nb.Extra[key] = val
		}
	}
	return nil
}

// UnmarshalJSON decodes a cell, keeping unmodeled keys in Extra.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Extra = map[string]json.RawMessage{}
	for key, val := range raw {
		switch key {
		case "cell_type":
			if err := json.Unmarshal(val, &c.Type); err != nil {
				return fmt.Errorf("cell_type: %w", err)
			}
		case "source":
			src, err := decodeSource(val)
			if err != nil {
				return err
			}
			c.Source = src
		case "metadata":
			c.Metadata = val
		case "execution_count":
			if !bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
				var n int
				if err := json.Unmarshal(val, &n); err != nil {
					return fmt.Errorf("execution_count: %w", err)
				}
				c.ExecutionCount = &n
			}
		case "outputs":
			if err := json.Unmarshal(val, &c.Outputs); err != nil {
				return fmt.Errorf("outputs: %w", err)
			}
		default:
			c.Extra[key] = val
		}
	}

	if _, ok := raw["source"]; !ok {
		c.noSource = true
	}
	if c.Type == TypeCode && c.Outputs == nil {
		c.Outputs = []json.RawMessage{}
	}
	return nil
}

// decodeSource accepts the two source encodings the format allows: a plain
// string or a list of line strings.
func decodeSource(raw json.RawMessage) (string, error) {
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, ""), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("source is neither a string nor a string list")
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// MarshalJSON encodes the notebook. Keys are emitted in sorted order, which
// for the modeled keys matches the conventional cells, metadata, nbformat,
// nbformat_minor layout.
func (nb Notebook) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(nb.Extra)+4)
	for k, v := range nb.Extra {
		m[k] = v
	}
	cells := nb.Cells
	if cells == nil {
		cells = []Cell{}
	}
	m["cells"] = cells
	m["metadata"] = metadataOrEmpty(nb.Metadata)
	m["nbformat"] = nb.Format
	m["nbformat_minor"] = nb.FormatMinor
	return json.Marshal(m)
}

// MarshalJSON encodes a cell. Source is always written as a list of lines;
// code cells always carry execution_count and outputs.
func (c Cell) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Extra)+5)
	for k, v := range c.Extra {
		m[k] = v
	}
	m["cell_type"] = c.Type
	m["metadata"] = rawOrEmpty(c.Metadata)
	m["source"] = sourceLines(c.Source)
	if c.Type == TypeCode {
		m["execution_count"] = c.ExecutionCount
		outputs := c.Outputs
		if outputs == nil {
			outputs = []json.RawMessage{}
		}
		m["outputs"] = outputs
	}
	return json.Marshal(m)
}

// sourceLines splits source into the line-list encoding: every line keeps
// its trailing newline except a final unterminated line.
func sourceLines(source string) []string {
	if source == "" {
		return []string{}
	}
	lines := strings.SplitAfter(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func metadataOrEmpty(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return map[string]json.RawMessage{}
	}
	return m
}

func rawOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	return raw
}

// Marshal serialises the notebook with the conventional 1-space indentation
// and a trailing newline.
func (nb *Notebook) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(nb, "", " ")
	if err != nil {
		return nil, fmt.Errorf("marshaling notebook: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile serialises and writes to path, creating parent directories as
// needed.
func (nb *Notebook) WriteFile(path string) error {
	data, err := nb.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
