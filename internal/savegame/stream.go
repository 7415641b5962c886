package savegame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Tag opens every save stream.
const Tag = "Gothic3D/Save\x00"

const (
	Version    uint16 = 10
	MinVersion uint16 = 1
)

var (
	ErrFormat  = errors.New("savegame: invalid file format")
	ErrVersion = errors.New("savegame: unsupported save file version")
)

var order = binary.LittleEndian

// MaxString is the longest string a stream may carry.
const MaxString = 1 << 20

// Writer encodes values after the stream header. The first failure sticks:
// later writes are skipped and Err reports it.
type Writer struct {
	out     io.Writer
	version uint16
	err     error
}

// NewWriter writes the header for the current version.
func NewWriter(out io.Writer) (*Writer, error) {
	return NewWriterVersion(out, Version)
}

// NewWriterVersion writes a header claiming version v. Used to produce
// legacy streams.
func NewWriterVersion(out io.Writer, v uint16) (*Writer, error) {
	w := &Writer{out: out, version: v}
	if _, err := io.WriteString(out, Tag); err != nil {
		return nil, fmt.Errorf("savegame: write header: %w", err)
	}
	if err := binary.Write(out, order, v); err != nil {
		return nil, fmt.Errorf("savegame: write header: %w", err)
	}
	return w, nil
}

func (w *Writer) Version() uint16 { return w.version }

func (w *Writer) Err() error { return w.err }

// Write encodes each value in order. Supported: fixed-size numbers, bool,
// int (as int32), string and raylib vector/matrix structs.
func (w *Writer) Write(vals ...any) error {
	for _, v := range vals {
		if w.err != nil {
			return w.err
		}
		w.err = w.write(v)
	}
	return w.err
}

func (w *Writer) write(v any) error {
	switch v := v.(type) {
	case string:
		if len(v) > MaxString {
			return fmt.Errorf("savegame: write string: %w: length %d", ErrFormat, len(v))
		}
		if err := binary.Write(w.out, order, uint32(len(v))); err != nil {
			return fmt.Errorf("savegame: write string: %w", err)
		}
		if _, err := io.WriteString(w.out, v); err != nil {
			return fmt.Errorf("savegame: write string: %w", err)
		}
		return nil
	case int:
		v32 := int32(v)
		return w.write(v32)
	}
	if err := binary.Write(w.out, order, v); err != nil {
		return fmt.Errorf("savegame: write %T: %w", v, err)
	}
	return nil
}

// Reader decodes a stream produced by Writer.
type Reader struct {
	in      io.Reader
	version uint16
	err     error
}

// NewReader validates the header. A wrong tag yields ErrFormat, a version
// outside [MinVersion, Version] yields ErrVersion.
func NewReader(in io.Reader) (*Reader, error) {
	buf := make([]byte, len(Tag))
	if _, err := io.ReadFull(in, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	var v uint16
	if err := binary.Read(in, order, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if string(buf) != Tag {
		return nil, ErrFormat
	}
	if v < MinVersion || v > Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, v)
	}
	return &Reader{in: in, version: v}, nil
}

// Version is the version recorded in the stream header.
func (r *Reader) Version() uint16 { return r.version }

func (r *Reader) Err() error { return r.err }

// Read decodes into each pointer in order, mirroring Writer.Write.
func (r *Reader) Read(ptrs ...any) error {
	for _, p := range ptrs {
		if r.err != nil {
			return r.err
		}
		r.err = r.read(p)
	}
	return r.err
}

func (r *Reader) read(p any) error {
	switch p := p.(type) {
	case *string:
		var n uint32
		if err := binary.Read(r.in, order, &n); err != nil {
			return fmt.Errorf("savegame: read string: %w", err)
		}
		if n > MaxString {
			return fmt.Errorf("savegame: read string: %w: length %d", ErrFormat, n)
		}
		var b strings.Builder
		if _, err := io.CopyN(&b, r.in, int64(n)); err != nil {
			return fmt.Errorf("savegame: read string: %w", err)
		}
		*p = b.String()
		return nil
	case *int:
		var v int32
		if err := r.read(&v); err != nil {
			return err
		}
		*p = int(v)
		return nil
	}
	if err := binary.Read(r.in, order, p); err != nil {
		return fmt.Errorf("savegame: read %T: %w", p, err)
	}
	return nil
}
