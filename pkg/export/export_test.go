package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dataset {
	return Dataset{
		Headers: []string{"ID", "Title"},
		Rows: []map[string]string{
			{"ID": "1", "Title": "Essay, draft"},
			{"ID": "2"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVExporterQuotesAndFillsMissingCells(t *testing.T) {
	out, err := NewCSVExporter().Render(sample())
	require.NoError(t, err)
	assert.Equal(t, "ID,Title\n1,\"Essay, draft\"\n2,\n", string(out))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{}, "x")
	assert.Error(t, err)
}

func TestPDFExporterProducesDocument(t *testing.T) {
	data := sample()
	for i := 0; i < 80; i++ {
		data.Rows = append(data.Rows, map[string]string{"ID": "n", "Title": string(bytes.Repeat([]byte("x"), 200))})
	}
	exporter := NewPDFExporter()
	exporter.Widths = map[string]float64{"Title": 3}
	out, err := exporter.Render(data, "Work items")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 5))
}

func TestCSVExporterBOM(t *testing.T) {
	exporter := NewCSVExporter()
	exporter.BOM = true
	var buf bytes.Buffer
	require.NoError(t, exporter.Write(&buf, Dataset{Headers: []string{"ID"}}))
	assert.Equal(t, "\ufeffID\n", buf.String())
}
