package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"clinic-records/internal/platform/logger"

	"github.com/stretchr/testify/require"
)

func previewService() *Service {
	return NewService(nil, logger.New(logger.Options{Level: logger.Error}))
}

func TestPreviewOwnerImport_SamplesFirstTen(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("last_name,first_name\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&sb, "Owner%d,Name%d\n", i, i)
	}

	p, err := previewService().PreviewOwnerImport(context.Background(), strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Equal(t, []string{"last_name", "first_name"}, p.Headers)
	require.Len(t, p.Rows, 10)
	require.Equal(t, 12, p.TotalRecords)
	require.Equal(t, []string{"Owner0", "Name0"}, p.Rows[0])
}

func TestPreviewOwnerImport_RaggedRowInSample(t *testing.T) {
	in := "last_name,first_name\nDoe,John\nSolo\n"

	_, err := previewService().PreviewOwnerImport(context.Background(), strings.NewReader(in))
	require.EqualError(t, err, "Row 3 has incorrect number of columns (1). Expected 2.")
}

func TestPreviewOwnerImport_RaggedRowBeyondSampleIsCounted(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("last_name,first_name\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, "Owner%d,Name%d\n", i, i)
	}
	// Fila 12 torcida: fuera de la muestra, solo se cuenta
	sb.WriteString("Solo\n")

	p, err := previewService().PreviewOwnerImport(context.Background(), strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Equal(t, 11, p.TotalRecords)
}

func TestPreviewOwnerImport_HeaderOnly(t *testing.T) {
	_, err := previewService().PreviewOwnerImport(context.Background(), strings.NewReader("last_name\n"))
	require.ErrorIs(t, err, ErrNoDataRows)
}

func TestPreviewPatientImport_MissingColumns(t *testing.T) {
	_, err := previewService().PreviewPatientImport(context.Background(), strings.NewReader("last_name,patient_name\nDoe,Milo\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing required columns")
}
