package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WritePage writes one page of rows as JSON Lines into dir, creating the
// directory (and intermediate directories) as needed. The file is named
// {operator}_{requestedSize}_{page}.jsonl; one compact JSON record per
// line, UTF-8, no array wrapper. Returns the full path of the written file.
func WritePage(dir, operatorID string, requestedSize, pageIndex int, rows []json.RawMessage) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%d_%d.jsonl", operatorID, requestedSize, pageIndex))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	var compact bytes.Buffer
	for _, row := range rows {
		compact.Reset()
		// Rows arrive as raw JSON from the wire; re-compact so each record
		// occupies exactly one line regardless of upstream formatting.
		if err := json.Compact(&compact, row); err != nil {
			f.Close()
			return "", fmt.Errorf("encode row for %s: %w", path, err)
		}
		compact.WriteByte('\n')
		if _, err := w.Write(compact.Bytes()); err != nil {
			f.Close()
			return "", fmt.Errorf("write row to %s: %w", path, err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("flush export file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file %s: %w", path, err)
	}
	return path, nil
}
