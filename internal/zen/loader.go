package zen

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadFile reads a JSON level archive from disk.
func LoadFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("zen: read %s: %w", path, err)
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("zen: %s: %w", path, err)
	}
	return a, nil
}

// Decode parses a JSON level archive.
func Decode(r io.Reader) (*Archive, error) {
	var a Archive
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("parse archive: %w", err)
	}
	return &a, nil
}

// Count returns the number of records in the archive, children included.
func (a *Archive) Count() int {
	n := 0
	var walk func(rs []*Record)
	walk = func(rs []*Record) {
		for _, r := range rs {
			if r == nil {
				continue
			}
			n++
			walk(r.Children)
		}
	}
	walk(a.Vobs)
	return n
}
