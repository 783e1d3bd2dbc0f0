// Package source loads the XML text blobs an extraction run operates on,
// from either a plain XML file or a ZIP archive of XML entries.
package source

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/patentid/format"
)

// Loader-related errors.
var (
	ErrNotFound     = errors.New("source: file not found")
	ErrEmptyArchive = errors.New("source: no XML entries in ZIP archive")
)

// IOError wraps a failure to read a source.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("source: error reading %q: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Blob is the decoded text of one XML document.
type Blob struct {
	// Name is the archive entry name, or the file path for a plain file.
	Name string
	Text string
}

// Loader reads sources from a filesystem.
type Loader struct {
	fs  afero.Fs
	log hclog.Logger
}

// NewLoader returns a Loader over fsys. A nil fsys means the OS
// filesystem and a nil logger discards output.
func NewLoader(fsys afero.Fs, logger hclog.Logger) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Loader{fs: fsys, log: logger}
}

// Load returns the XML blobs held by path. A ZIP archive yields one blob
// per .xml entry in archive order; any other file yields a single blob.
func (l *Loader) Load(path string) ([]Blob, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, &IOError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, path)
	}

	f, err := l.fs.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	kind, err := format.DetectFromReader(f, info.Size())
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	// Content decides the kind; the extension is only a hint.
	if named := format.Detect(path); named != format.Unknown && named != kind {
		l.log.Debug("extension does not match content",
			"path", path, "extension", named.Extension(), "detected", kind.String())
	}

	if kind == format.ZIP {
		l.log.Debug("reading archive", "path", path, "size", info.Size())
		return l.loadArchive(path, f, info.Size())
	}

	l.log.Debug("reading plain file", "path", path, "kind", kind.String())
	data, err := io.ReadAll(io.NewSectionReader(f, 0, info.Size()))
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	text, err := Decode(data)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return []Blob{{Name: path, Text: text}}, nil
}

func (l *Loader) loadArchive(path string, r io.ReaderAt, size int64) ([]Blob, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &IOError{Path: path, Err: fmt.Errorf("opening ZIP archive: %w", err)}
	}

	var entries []*zip.File
	for _, f := range zr.File {
		if format.IsXMLEntry(f.Name) {
			entries = append(entries, f)
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyArchive, path)
	}

	blobs := make([]Blob, 0, len(entries))
	for _, f := range entries {
		data, err := readEntry(f)
		if err != nil {
			return nil, &IOError{Path: path, Err: fmt.Errorf("entry %s: %w", f.Name, err)}
		}
		text, err := Decode(data)
		if err != nil {
			return nil, &IOError{Path: path, Err: fmt.Errorf("entry %s: %w", f.Name, err)}
		}
		l.log.Trace("read archive entry", "entry", f.Name, "bytes", len(data))
		blobs = append(blobs, Blob{Name: f.Name, Text: text})
	}
	return blobs, nil
}

// readEntry reads the content of a file from the ZIP archive.
func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Decode converts raw bytes to text as UTF-8. A leading byte order mark is
// dropped and malformed sequences are replaced with U+FFFD.
func Decode(data []byte) (string, error) {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
