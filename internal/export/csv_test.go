package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscan/ctri-extract/internal/extract"
)

func sampleRecord(ctri string) *extract.Record {
	record := extract.NewRecord()
	record.Set(extract.FieldCTRINumber, ctri)
	record.Set(extract.FieldTypeOfTrial, "Interventional")
	return record
}

func TestWriterProducesBOMAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRecord("CTRI/2020/01/000123")))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"), "missing UTF-8 BOM")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Header(), rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "CTRI/2020/01/000123", rows[1][1])
}

func TestHeaderMatchesSchema(t *testing.T) {
	header := Header()
	require.Len(t, header, len(extract.FieldSchema)+1)
	assert.Equal(t, "Sl_No", header[0])
	assert.Equal(t, extract.FieldSchema, header[1:])
}

func TestWriterSequencesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRecord("CTRI/2020/01/000001")))
	require.NoError(t, w.Write(sampleRecord("CTRI/2020/01/000002")))
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Close())

	seen, err := ReadCTRINumbers(path)
	require.NoError(t, err)
	assert.True(t, seen["CTRI/2020/01/000001"])
	assert.True(t, seen["CTRI/2020/01/000002"])
	assert.Len(t, seen, 2)
}

func TestWriteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := WriteAll(path, []*extract.Record{
		sampleRecord("CTRI/2020/01/000001"),
		sampleRecord("CTRI/2020/01/000002"),
	})
	require.NoError(t, err)

	seen, err := ReadCTRINumbers(path)
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}

func TestReadCTRINumbersMissingFile(t *testing.T) {
	seen, err := ReadCTRINumbers(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestReadCTRINumbersWithoutBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.csv")
	content := "Sl_No," + strings.Join(extract.FieldSchema, ",") + "\n" +
		"1,CTRI/2019/01/000009" + strings.Repeat(",", len(extract.FieldSchema)-1) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	seen, err := ReadCTRINumbers(path)
	require.NoError(t, err)
	assert.True(t, seen["CTRI/2019/01/000009"])
}

func TestReadCTRINumbersRejectsForeignCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0o644))

	_, err := ReadCTRINumbers(path)
	assert.Error(t, err)
}

func TestOpenAppendContinuesSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteAll(path, []*extract.Record{
		sampleRecord("CTRI/2020/01/000001"),
	}))

	w, err := OpenAppend(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRecord("CTRI/2020/01/000002")))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2", rows[2][0])
}

func TestOpenAppendOnMissingFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := OpenAppend(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRecord("CTRI/2020/01/000001")))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"))
}

func TestWriterFlushKeepsRowsReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRecord("CTRI/2022/03/000777")))
	require.NoError(t, w.Flush())

	// Readable before Close, as the batch runner's progress saves require.
	seen, err := ReadCTRINumbers(path)
	require.NoError(t, err)
	assert.True(t, seen["CTRI/2022/03/000777"])

	require.NoError(t, w.Close())
}
