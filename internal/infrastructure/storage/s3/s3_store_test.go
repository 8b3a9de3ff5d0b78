package s3_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asha-billing/internal/infrastructure/storage/s3"
	"github.com/jhoicas/asha-billing/pkg/config"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Bucket:          "asha-invoices",
		Region:          "ap-south-1",
		Endpoint:        "http://minio.local:9000",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Prefix:          "invoices/",
	}
}

func TestNewStore_RequiresBucket(t *testing.T) {
	_, err := s3.NewStore(context.Background(), config.StorageConfig{Region: "ap-south-1"})
	assert.Error(t, err)
}

func TestStore_PresignGet(t *testing.T) {
	store, err := s3.NewStore(context.Background(), testConfig())
	require.NoError(t, err)

	assert.Equal(t, "invoices/Invoice_AFI-0377.pdf", store.ObjectKey("Invoice_AFI-0377.pdf"))

	raw, err := store.PresignGet(context.Background(), "Invoice_AFI-0377.pdf", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "minio.local:9000", u.Host)
	assert.True(t, strings.HasSuffix(u.Path, "/asha-invoices/invoices/Invoice_AFI-0377.pdf"), u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}

func TestStore_ObjectKeyStaysUnderPrefix(t *testing.T) {
	store, err := s3.NewStore(context.Background(), testConfig())
	require.NoError(t, err)

	cases := map[string]string{
		"../../x":                    "invoices/..-..-x",
		"Invoice_../../etc/pdf":      "invoices/Invoice_..-..-etc-pdf",
		"..":                         "invoices/invoice.pdf",
		`Invoice_AFI\0377.pdf`:       "invoices/Invoice_AFI-0377.pdf",
		"Invoice_AFI-0377/24-25.pdf": "invoices/Invoice_AFI-0377-24-25.pdf",
	}
	for in, want := range cases {
		got := store.ObjectKey(in)
		assert.Equal(t, want, got, in)
		assert.True(t, strings.HasPrefix(got, "invoices/"), in)
	}

	cfg := testConfig()
	cfg.Prefix = ""
	bare, err := s3.NewStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "..-x", bare.ObjectKey("../x"))
}
