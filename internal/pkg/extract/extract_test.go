package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StutiiiG/readai/internal/model"
)

type memBlob struct {
	data map[string][]byte
}

func (m *memBlob) Write(name string, data []byte) error {
	m.data[name] = data
	return nil
}

func (m *memBlob) Read(name string) ([]byte, error) {
	data, ok := m.data[name]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", name)
	}
	return data, nil
}

func (m *memBlob) Delete(name string) error {
	delete(m.data, name)
	return nil
}

func newExtractor(blobs map[string][]byte) *Extractor {
	return New(&memBlob{data: blobs}, nil)
}

func file(name, storedName, fileType string) model.StoredFile {
	return model.StoredFile{
		ID:         "file-1",
		Filename:   name,
		StoredName: storedName,
		FileType:   fileType,
	}
}

func TestExtractTxtVerbatim(t *testing.T) {
	e := newExtractor(map[string][]byte{"f.txt": []byte("Revenue grew 12% in Q3\nsecond line")})

	text := e.Extract(context.Background(), file("report.txt", "f.txt", "txt"))

	assert.Equal(t, "Revenue grew 12% in Q3\nsecond line", text)
}

func TestExtractImageReturnsPlaceholder(t *testing.T) {
	e := newExtractor(map[string][]byte{"f.png": {0x89, 0x50, 0x4e, 0x47}})

	for _, imageType := range []string{"png", "jpg", "jpeg", "gif", "webp"} {
		text := e.Extract(context.Background(), file("pic."+imageType, "f.png", imageType))
		assert.Equal(t, ImagePlaceholder, text)
	}
}

func TestExtractMissingBlobYieldsEmpty(t *testing.T) {
	e := newExtractor(map[string][]byte{})

	text := e.Extract(context.Background(), file("gone.txt", "missing.txt", "txt"))

	assert.Empty(t, text)
}

func TestExtractCorruptPDFYieldsEmpty(t *testing.T) {
	e := newExtractor(map[string][]byte{"f.pdf": []byte("this is not a pdf")})

	text := e.Extract(context.Background(), file("broken.pdf", "f.pdf", "pdf"))

	assert.Empty(t, text)
}

func TestExtractUnsupportedTypeYieldsEmpty(t *testing.T) {
	e := newExtractor(map[string][]byte{"f.bin": []byte("data")})

	text := e.Extract(context.Background(), file("weird.bin", "f.bin", "bin"))

	assert.Empty(t, text)
}

func TestExtractDocxParagraphs(t *testing.T) {
	doc := buildDocx(t, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`)
	e := newExtractor(map[string][]byte{"f.docx": doc})

	text := e.Extract(context.Background(), file("thesis.docx", "f.docx", "docx"))

	assert.Equal(t, "First paragraph.\nSecond paragraph.\n", text)
}

func TestExtractCorruptDocxYieldsEmpty(t *testing.T) {
	e := newExtractor(map[string][]byte{"f.docx": []byte("not a zip archive")})

	text := e.Extract(context.Background(), file("broken.docx", "f.docx", "docx"))

	assert.Empty(t, text)
}

func TestExtractDocxWithoutDocumentPartYieldsEmpty(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	e := newExtractor(map[string][]byte{"f.docx": buf.Bytes()})

	text := e.Extract(context.Background(), file("odd.docx", "f.docx", "docx"))

	assert.Empty(t, text)
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
