package document

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docx builds a minimal Word document whose body holds one paragraph per entry.
func docx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + p + `</w:t></w:r></w:p>`)
	}
	xmlDoc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(xmlDoc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseText_Docx(t *testing.T) {
	data := docx(t, "Camille  Martin", "Développeuse &amp; formatrice", "")
	text, err := ParseText("CV.DOCX", data)
	require.NoError(t, err)
	assert.Equal(t, "Camille Martin\nDéveloppeuse & formatrice", text)
}

func TestParseText_Errors(t *testing.T) {
	_, err := ParseText("cv.txt", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ParseText("cv.docx", []byte("not a zip"))
	assert.Error(t, err)

	_, err = ParseText("cv.pdf", []byte("not a pdf"))
	assert.Error(t, err)
}

func TestDecodeProfile(t *testing.T) {
	p, err := decodeProfile("```json\n{\"summary\":\"Dev\",\"skills\":[\"Go\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Dev", p.Summary)
	assert.Equal(t, []string{"Go"}, p.Skills)
	assert.NotNil(t, p.Experience)
	assert.NotNil(t, p.Education)

	_, err = decodeProfile("désolé, je ne peux pas")
	assert.Error(t, err)
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, "2020 - 2022", period("2020", "2022"))
	assert.Equal(t, "2021 - aujourd'hui", period("2021", "present"))
	assert.Equal(t, "", period("", ""))
}
