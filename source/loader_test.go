package source

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zipEntry is a name/content pair written to a test archive.
type zipEntry struct {
	name string
	data string
}

// createTestZIP builds a ZIP archive in memory.
func createTestZIP(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(e.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeFile(t *testing.T, fsys afero.Fs, name string, data []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, name, data, 0o644))
}

func TestLoadPlainFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/data/doc.xml", []byte("<root/>"))

	blobs, err := NewLoader(fsys, nil).Load("/data/doc.xml")
	require.NoError(t, err)
	assert.Equal(t, []Blob{{Name: "/data/doc.xml", Text: "<root/>"}}, blobs)
}

func TestLoadPlainFileAnyExtension(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/data/test.txt", []byte("not even xml"))

	blobs, err := NewLoader(fsys, nil).Load("/data/test.txt")
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "not even xml", blobs[0].Text)
}

func TestLoadLenientDecoding(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/bad.xml", []byte("\xEF\xBB\xBF<a>x\xFFy</a>"))

	blobs, err := NewLoader(fsys, nil).Load("/bad.xml")
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "<a>x\uFFFDy</a>", blobs[0].Text)
}

func TestLoadArchive(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/bundle.zip", createTestZIP(t,
		zipEntry{"b.xml", "<b/>"},
		zipEntry{"readme.txt", "ignored"},
		zipEntry{"nested/A.XML", "<a/>"},
		zipEntry{"c.xml.bak", "<c/>"},
	))

	blobs, err := NewLoader(fsys, nil).Load("/bundle.zip")
	require.NoError(t, err)
	assert.Equal(t, []Blob{
		{Name: "b.xml", Text: "<b/>"},
		{Name: "nested/A.XML", Text: "<a/>"},
	}, blobs)
}

func TestLoadArchiveWithoutZipExtension(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/bundle.dat", createTestZIP(t, zipEntry{"doc.xml", "<doc/>"}))

	blobs, err := NewLoader(fsys, nil).Load("/bundle.dat")
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "doc.xml", blobs[0].Name)
}

func TestLoadEmptyArchive(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/none.zip", createTestZIP(t, zipEntry{"notes.txt", "hello"}))

	_, err := NewLoader(fsys, nil).Load("/none.zip")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyArchive))
}

func TestLoadArchiveWithNoEntries(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/empty.zip", createTestZIP(t))

	_, err := NewLoader(fsys, nil).Load("/empty.zip")
	assert.ErrorIs(t, err, ErrEmptyArchive)
}

func TestLoadNotFound(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := NewLoader(fsys, nil).Load("/missing.xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "/missing.xml")
}

func TestLoadDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/dir", 0o755))

	_, err := NewLoader(fsys, nil).Load("/dir")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorruptArchive(t *testing.T) {
	data := createTestZIP(t, zipEntry{"doc.xml", "<doc>some content to compress</doc>"})
	// Keep the local header signature but drop the central directory.
	truncated := data[:len(data)/2]

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/broken.zip", truncated)

	_, err := NewLoader(fsys, nil).Load("/broken.zip")
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "want *IOError, got %T", err)
	assert.Equal(t, "/broken.zip", ioErr.Path)
	assert.NotNil(t, errors.Unwrap(ioErr))
}

func TestIOErrorMessage(t *testing.T) {
	err := &IOError{Path: "x.zip", Err: errors.New("boom")}
	assert.Equal(t, `source: error reading "x.zip": boom`, err.Error())
}

func TestLoaderDefaults(t *testing.T) {
	l := NewLoader(nil, nil)
	assert.NotNil(t, l.fs)
	assert.NotNil(t, l.log)
}

func TestLoadFileFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/doc.xml"
	require.NoError(t, afero.WriteFile(afero.NewOsFs(), path, []byte("<x/>"), 0o644))

	blobs, err := NewLoader(nil, nil).Load(path)
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "<x/>", blobs[0].Text)
}

func TestLoadLogsExtensionMismatch(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug})

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/bundle.xml", createTestZIP(t, zipEntry{"a.xml", "<a/>"}))
	writeFile(t, fsys, "/doc.xml", []byte("<a/>"))

	blobs, err := NewLoader(fsys, logger).Load("/bundle.xml")
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "a.xml", blobs[0].Name)
	assert.Contains(t, buf.String(), "extension does not match content")
	assert.Contains(t, buf.String(), "extension=.xml")
	assert.Contains(t, buf.String(), "detected=ZIP")

	buf.Reset()
	_, err = NewLoader(fsys, logger).Load("/doc.xml")
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "extension does not match content")
}

func TestDecode(t *testing.T) {
	got, err := Decode([]byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	got, err = Decode([]byte("\xEF\xBB\xBFbom"))
	require.NoError(t, err)
	assert.Equal(t, "bom", got)

	got, err = Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
