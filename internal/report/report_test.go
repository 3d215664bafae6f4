package report_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"landora/internal/models"
	"landora/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProperties(n int) []models.Property {
	out := make([]models.Property, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Property{
			ID:           fmt.Sprint(i),
			Name:         fmt.Sprintf("House %d", i),
			Location:     "Goa",
			Price:        100000 + float64(i),
			Description:  "Sea view",
			Availability: i%2 == 0,
		})
	}
	return out
}

func TestRows(t *testing.T) {
	long := strings.Repeat("a", 80)
	rows := report.Rows([]models.Property{
		{Name: "Beach Cottage", Location: "Goa", Price: 500000, Description: "Sea view", Availability: true},
		{Name: "Hilltop", Location: "Shimla", Price: 1250.5, Description: long, Availability: false},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Beach Cottage", "Goa", "500000", "Sea view", "Available"}, rows[0].Cells())
	assert.Equal(t, "1250.5", rows[1].Price)
	assert.Equal(t, "Not Available", rows[1].Availability)
	assert.Len(t, []rune(rows[1].Description), 60)
	assert.True(t, strings.HasSuffix(rows[1].Description, "..."))
}

func TestRows_Deterministic(t *testing.T) {
	props := sampleProperties(5)
	assert.Equal(t, report.Rows(props), report.Rows(props))
	assert.Empty(t, report.Rows(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", report.Truncate("short", 10))
	assert.Equal(t, "abcdefg...", report.Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "héllo w...", report.Truncate("héllo wörld, again", 10))
	assert.Equal(t, "ab", report.Truncate("abcdef", 2))
}

func TestWritePDF(t *testing.T) {
	var single, many bytes.Buffer
	require.NoError(t, report.WritePDF(&single, sampleProperties(1)))
	// Enough rows to span several pages.
	require.NoError(t, report.WritePDF(&many, sampleProperties(120)))

	assert.True(t, bytes.HasPrefix(single.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.HasPrefix(many.Bytes(), []byte("%PDF-")))
	assert.Greater(t, many.Len(), single.Len())
}

func TestWritePDF_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := report.WritePDF(&buf, nil)
	assert.ErrorIs(t, err, report.ErrEmptyReport)
	assert.Zero(t, buf.Len())
}
