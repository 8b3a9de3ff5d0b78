package sheets_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/asha-billing/internal/infrastructure/sheets"
)

func serve(t *testing.T, contentType string, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ─── CSV ──────────────────────────────────────────────────────────────────────

func TestFetch_CSV(t *testing.T) {
	srv := serve(t, "text/csv", []byte("Name,GST,City\nSharma Traders,06ANJPM8264E1ZT,Karnal\n"))

	rows, err := sheets.NewHTTPSource(time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Sharma Traders", "06ANJPM8264E1ZT", "Karnal"}, rows[1])
}

func TestParseCSV_Windows1252(t *testing.T) {
	// "Café" con é como el byte único 0xE9.
	rows, err := sheets.ParseCSV([]byte("Name\nCaf\xe9\n"))
	require.NoError(t, err)
	assert.Equal(t, "Café", rows[1][0])
}

func TestParseCSV_RaggedRows(t *testing.T) {
	rows, err := sheets.ParseCSV([]byte("a,b,c\nx\n"))
	require.NoError(t, err)
	assert.Len(t, rows[1], 1)
}

// ─── XLSX ─────────────────────────────────────────────────────────────────────

func TestFetch_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Name", "GST", "City"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Gupta Electricals", "06AAACG1234F1Z8", "Panipat"}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	srv := serve(t, "application/octet-stream", buf.Bytes())

	rows, err := sheets.NewHTTPSource(time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Gupta Electricals", rows[1][0])
	assert.Equal(t, "Panipat", rows[1][2])
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := sheets.NewHTTPSource(time.Second).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
