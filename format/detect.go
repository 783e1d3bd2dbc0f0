// Package format provides source kind detection for the patentid library.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Kind represents a supported source kind.
type Kind int

const (
	// Unknown indicates an unrecognized source.
	Unknown Kind = iota
	// ZIP indicates a ZIP archive of XML entries.
	ZIP
	// XML indicates a plain XML document.
	XML
)

var (
	zipLocalHeader = []byte{0x50, 0x4B, 0x03, 0x04}
	zipEndRecord   = []byte{0x50, 0x4B, 0x05, 0x06}
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case ZIP:
		return "ZIP"
	case XML:
		return "XML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the kind.
func (k Kind) Extension() string {
	switch k {
	case ZIP:
		return ".zip"
	case XML:
		return ".xml"
	default:
		return ""
	}
}

// Detect determines the source kind from the filename extension.
func Detect(filename string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		return ZIP
	case ".xml":
		return XML
	default:
		return Unknown
	}
}

// IsXMLEntry reports whether an archive entry name carries the .xml suffix.
// The comparison ignores case.
func IsXMLEntry(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".xml")
}

// DetectFromMagic checks leading bytes to determine the kind.
// Returns Unknown if the kind cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Kind {
	if len(data) >= 4 && (bytes.HasPrefix(data, zipLocalHeader) || bytes.HasPrefix(data, zipEndRecord)) {
		return ZIP
	}
	if detectXMLMagic(data) {
		return XML
	}
	return Unknown
}

// detectXMLMagic checks if the data looks like markup.
func detectXMLMagic(data []byte) bool {
	// UTF-8 byte order mark
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	data = bytes.TrimLeft(data, " \t\r\n")
	return len(data) > 0 && data[0] == '<'
}

// DetectFromReader inspects the content to determine the kind.
// Content without a ZIP signature is still reported as ZIP when a central
// directory can be located, which covers archives with prepended data.
func DetectFromReader(r io.ReaderAt, size int64) (Kind, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if kind := DetectFromMagic(magic); kind == ZIP {
		return ZIP, nil
	}

	if size > 0 {
		if _, err := zip.NewReader(r, size); err == nil {
			return ZIP, nil
		}
	}

	if detectXMLMagic(magic) {
		return XML, nil
	}
	return Unknown, nil
}
