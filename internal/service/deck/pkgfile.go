package deck

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
)

// The template is never mutated in place: edits accumulate in an overlay of
// part name -> replacement bytes, and saving re-emits the original zip with
// overlaid parts swapped in. Untouched parts are copied entry-for-entry, so
// everything the filler does not edit stays byte-identical.

var (
	// ErrTemplateOpen marks a template package that cannot be opened.
	ErrTemplateOpen = errors.New("template open failed")

	// ErrPartMissing marks a referenced package part absent from the template.
	ErrPartMissing = errors.New("template part not found")

	// ErrTemplateSave marks a failure writing the finished presentation.
	ErrTemplateSave = errors.New("presentation save failed")
)

// Package is a presentation package opened for templating.
type Package struct {
	reader  *zip.Reader
	index   map[string]*zip.File
	overlay map[string][]byte
}

// OpenTemplate loads a presentation package from disk.
func OpenTemplate(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateOpen, path, err)
	}
	return NewPackage(data)
}

// NewPackage loads a presentation package from bytes.
func NewPackage(data []byte) (*Package, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateOpen, err)
	}

	index := make(map[string]*zip.File, len(reader.File))
	for _, part := range reader.File {
		index[part.Name] = part
	}

	return &Package{
		reader:  reader,
		index:   index,
		overlay: make(map[string][]byte),
	}, nil
}

// ReadPart returns the current content of a part, overlay first.
func (p *Package) ReadPart(name string) ([]byte, error) {
	if data, ok := p.overlay[name]; ok {
		return append([]byte(nil), data...), nil
	}

	part, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartMissing, name)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("read part %q: %w", name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("read part %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// WritePart stages replacement content for a part.
func (p *Package) WritePart(name string, data []byte) {
	copied := make([]byte, len(data))
	copy(copied, data)
	p.overlay[name] = copied
}

// SaveFile writes the finished package, replacing overlaid parts and copying
// everything else verbatim. The write goes through a temp file in the target
// directory and renames into place.
func (p *Package) SaveFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplateSave, path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	writer := zip.NewWriter(tmp)
	for _, part := range p.reader.File {
		if data, ok := p.overlay[part.Name]; ok {
			header := part.FileHeader
			if err := writeRawEntry(writer, &header, data); err != nil {
				writer.Close()
				tmp.Close()
				return fmt.Errorf("%w: part %q: %v", ErrTemplateSave, part.Name, err)
			}
			continue
		}
		if err := writer.Copy(part); err != nil {
			writer.Close()
			tmp.Close()
			return fmt.Errorf("%w: part %q: %v", ErrTemplateSave, part.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %v", ErrTemplateSave, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplateSave, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplateSave, path, err)
	}

	committed = true
	return nil
}

// writeRawEntry precomputes sizes and CRC and uses CreateRaw so overlaid
// entries carry no data descriptors, keeping the archive layout stable.
func writeRawEntry(writer *zip.Writer, header *zip.FileHeader, data []byte) error {
	if header.Method != zip.Store {
		header.Method = zip.Deflate
	}

	compressed, err := compressData(header.Method, data)
	if err != nil {
		return err
	}

	header.Flags &^= 0x8
	header.CRC32 = crc32.ChecksumIEEE(data)
	header.UncompressedSize64 = uint64(len(data))
	header.UncompressedSize = uint32(len(data))
	header.CompressedSize64 = uint64(len(compressed))
	header.CompressedSize = uint32(len(compressed))

	entry, err := writer.CreateRaw(header)
	if err != nil {
		return err
	}
	if len(compressed) == 0 {
		return nil
	}
	_, err = entry.Write(compressed)
	return err
}

func compressData(method uint16, data []byte) ([]byte, error) {
	if method == zip.Store {
		return data, nil
	}

	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
