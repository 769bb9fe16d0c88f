package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTable_NormalizesHeaders(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader(" Last_Name , FIRST_NAME,email\nDoe,John,j@x.com\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"last_name", "first_name", "email"}, tbl.Headers)
}

func TestParseTable_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("last_name\nDoe\n")...)
	tbl, err := ParseTable(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, []string{"last_name"}, tbl.Headers)

	row, ok, err := tbl.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"Doe"}, row)
}

func TestParseTable_RejectsInvalidUTF8(t *testing.T) {
	_, err := ParseTable(bytes.NewReader([]byte{'l', 'a', 's', 't', '\n', 0xFF, 0xFE, '\n'}))
	require.ErrorIs(t, err, ErrEncoding)
}

func TestParseTable_EmptyFile(t *testing.T) {
	_, err := ParseTable(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestRecord_PadsAndTruncates(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader("a,b,c\n"))
	require.NoError(t, err)

	// fila corta: las columnas faltantes quedan vacías
	rec := tbl.Record([]string{" 1 ", "2"})
	require.Equal(t, map[string]string{"a": "1", "b": "2", "c": ""}, rec)

	// fila larga: el sobrante se descarta
	rec = tbl.Record([]string{"1", "2", "3", "4"})
	require.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, rec)
}

func TestNext_ExhaustsRows(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader("a\n1\n2\n"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, ok, err := tbl.Next()
		require.NoError(t, err)
		require.True(t, ok)
	}
	_, ok, err := tbl.Next()
	require.NoError(t, err)
	require.False(t, ok)
}
