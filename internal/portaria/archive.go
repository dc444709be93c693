// Package portaria implements the extraction engine for budget orders
// (Portarias GM/MPO) published in DOU editions distributed by InLabs.
//
// An edition arrives as a zip of XML fragments. Fragments belonging to the
// same matéria are grouped by base id, the header fragment yields the
// order's identifier and hint, and every fragment's annex tables are
// scanned for per-unit grand totals tagged as supplement or cancellation.
package portaria

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"douvigia/internal/common"
)

// Archive is an open DOU bundle. It owns the underlying reader for the
// duration of one extraction call and must be closed by the caller.
type Archive struct {
	files  map[string]*zip.File
	closer io.Closer
	names  []string
}

// OpenArchive opens a zip held in memory.
func OpenArchive(data []byte) (*Archive, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptArchive, err)
	}
	return newArchive(reader.File, nil), nil
}

// OpenArchiveFile opens a zip on disk.
func OpenArchiveFile(path string) (*Archive, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptArchive, err)
	}
	return newArchive(reader.File, reader), nil
}

func newArchive(files []*zip.File, closer io.Closer) *Archive {
	archive := &Archive{
		files:  make(map[string]*zip.File, len(files)),
		names:  make([]string, 0, len(files)),
		closer: closer,
	}
	for _, file := range files {
		archive.files[file.Name] = file
		archive.names = append(archive.names, file.Name)
	}
	return archive
}

// Names returns the entry names in archive order.
func (a *Archive) Names() []string {
	return a.names
}

// Read returns the byte payload of one entry.
func (a *Archive) Read(name string) ([]byte, error) {
	file, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("entry %q: %w", name, common.ErrNotFound)
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %q: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry %q: %w", name, err)
	}
	return data, nil
}

// Close releases the underlying reader, if any.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
