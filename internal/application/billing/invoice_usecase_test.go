package billing_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/gst"
	"github.com/jhoicas/asha-billing/internal/domain/invoice"
	"github.com/jhoicas/asha-billing/internal/infrastructure/memory"
	"github.com/jhoicas/asha-billing/pkg/logger"
)

type harness struct {
	uc       *billing.InvoiceUseCase
	repo     *memory.LineItemRepo
	renderer *fakeRenderer
	sink     *fakeSink
	store    *fakeStore
	mailer   *fakeMailer
}

func newHarness(logo billing.LogoSource) *harness {
	h := &harness{
		repo:     memory.NewLineItemRepository(),
		renderer: &fakeRenderer{},
		sink:     newSink(),
		store:    &fakeStore{},
		mailer:   &fakeMailer{},
	}
	h.uc = billing.NewInvoiceUseCase(h.repo, newEngine(), h.renderer, logo, h.sink, logger.Nop()).
		WithSharing(h.store, h.mailer, time.Hour).
		WithClock(fixedClock{time.Date(2025, 3, 5, 6, 10, 0, 0, time.UTC)})
	return h
}

// ──────────────────────────────────────────────────────────────────────────────
// Generate
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerate_FiltersAndSaves(t *testing.T) {
	h := newHarness(nil)
	rows := []entity.LineItem{
		row("AFI-0377", "Pedestal Fan", "10", "600"),
		row("AFI-0378", "Air Cooler", "1", "5000"),
		row("AFI-0377", "Ceiling Fan", "2", "1500"),
	}

	doc, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{
		BillNumber: "AFI-0377", Mode: gst.ModeCGSTSGST, Rows: rows,
	})
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "Invoice_AFI-0377.pdf", doc.Filename)
	assert.Equal(t, billing.PDFContentType, doc.ContentType)
	assert.Equal(t, "/tmp/out/Invoice_AFI-0377.pdf", doc.SavedAt)
	assert.Equal(t, 2, doc.LineCount)
	assert.Equal(t, "10620.00", gst.FormatMoney(doc.GrandTotal))
	assert.Equal(t, "Ten Thousand Six Hundred and Twenty Only", doc.Words)
	assert.Equal(t, doc.Bytes, h.sink.saved["Invoice_AFI-0377.pdf"])

	require.Len(t, h.renderer.pages, 1)
	_, ok := h.renderer.pages[0].FindText("Air Cooler")
	assert.False(t, ok, "las filas de otras cuentas no deben filtrarse a la factura")
}

func TestGenerate_NoMatchIsAbsence(t *testing.T) {
	h := newHarness(nil)

	doc, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{
		BillNumber: "afi-0377",
		Rows:       []entity.LineItem{row("AFI-0377", "Pedestal Fan", "1", "1")},
	})
	assert.NoError(t, err)
	assert.Nil(t, doc)
	assert.Empty(t, h.sink.saved)
	assert.Empty(t, h.renderer.pages)
}

func TestGenerate_BillIsNotAPrefixMatch(t *testing.T) {
	h := newHarness(nil)
	rows := []entity.LineItem{
		row("AFI-0377", "Pedestal Fan", "1", "100"),
		row("AFI-037", "Air Cooler", "1", "5000"),
	}

	doc, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{BillNumber: "AFI-037", Rows: rows})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 1, doc.LineCount)
	assert.Equal(t, "5900.00", gst.FormatMoney(doc.GrandTotal))
	_, leaked := h.renderer.pages[0].FindText("Pedestal Fan")
	assert.False(t, leaked)

	doc, err = h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{BillNumber: "AFI-03", Rows: rows})
	assert.NoError(t, err)
	assert.Nil(t, doc)
}

func TestGenerate_DoesNotMutateInput(t *testing.T) {
	h := newHarness(nil)
	rows := []entity.LineItem{row("AFI-01", "Pedestal Fan", "1", "100")}
	rows[0].Extra = map[string]string{"Note": "keep"}
	before := rows[0].Clone()

	_, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{BillNumber: "AFI-01", Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, before, rows[0])
}

func TestGenerate_LogoFailureDegrades(t *testing.T) {
	h := newHarness(fakeLogo{err: errBoom})

	doc, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{
		BillNumber: "AFI-01", Rows: []entity.LineItem{row("AFI-01", "Pedestal Fan", "1", "100")},
	})
	require.NoError(t, err)
	require.NotNil(t, doc)
	_, hasLogo := h.renderer.pages[0].Block("logo")
	assert.False(t, hasLogo)
}

func TestGenerate_LogoIncluded(t *testing.T) {
	h := newHarness(fakeLogo{logo: invoice.LogoFromBytes([]byte{0xff, 0xd8}, "jpg")})

	_, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{
		BillNumber: "AFI-01", Rows: []entity.LineItem{row("AFI-01", "Pedestal Fan", "1", "100")},
	})
	require.NoError(t, err)
	_, hasLogo := h.renderer.pages[0].Block("logo")
	assert.True(t, hasLogo)
}

func TestGenerate_IGSTUsesSevenBands(t *testing.T) {
	h := newHarness(nil)

	doc, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{
		BillNumber: "AFI-01", Mode: gst.ModeIGST,
		Rows: []entity.LineItem{row("AFI-01", "Pedestal Fan", "10", "600")},
	})
	require.NoError(t, err)
	assert.Equal(t, gst.ModeIGST, doc.Mode)

	page := h.renderer.pages[0]
	_, hasIGST := page.FindText("IGST")
	_, hasCGST := page.FindText("CGST")
	assert.True(t, hasIGST)
	assert.False(t, hasCGST)
}

func TestGenerate_OverflowStillRenders(t *testing.T) {
	h := newHarness(nil)

	doc, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{
		BillNumber: "AFI-01",
		Rows:       []entity.LineItem{row("AFI-01", "Pedestal Fan", "1000000", "1000")},
	})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.True(t, doc.WordsOverflow)
	_, ok := h.renderer.pages[0].FindText(invoice.DefaultBranding().OverflowWords)
	assert.True(t, ok)
}

func TestGenerate_ReturnLineStillRenders(t *testing.T) {
	h := newHarness(nil)

	doc, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{
		BillNumber: "AFI-0400",
		Rows:       []entity.LineItem{row("AFI-0400", "Pedestal Fan", "-2", "600")},
	})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.False(t, doc.WordsOverflow)
	assert.Equal(t, "-1416.00", gst.FormatMoney(doc.GrandTotal))
	assert.Equal(t, "Minus One Thousand Four Hundred and Sixteen Only", doc.Words)
	_, ok := h.renderer.pages[0].FindText(doc.Words)
	assert.True(t, ok)
	assert.Contains(t, h.sink.saved, "Invoice_AFI-0400.pdf")
}

func TestGenerate_Failures(t *testing.T) {
	rows := []entity.LineItem{row("AFI-01", "Pedestal Fan", "1", "100")}

	h := newHarness(nil)
	h.renderer.err = errBoom
	_, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{BillNumber: "AFI-01", Rows: rows})
	assert.ErrorIs(t, err, errBoom)

	h = newHarness(nil)
	h.sink.err = errBoom
	_, err = h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{BillNumber: "AFI-01", Rows: rows})
	assert.ErrorIs(t, err, errBoom)

	h = newHarness(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.uc.Generate(ctx, billing.GenerateInvoiceRequest{BillNumber: "AFI-01", Rows: rows})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateFromRepository(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()
	r1, r2 := row("AFI-02", "Pedestal Fan", "1", "100"), row("AFI-03", "Air Cooler", "1", "100")
	r1.ID, r2.ID = "1", "2"
	require.NoError(t, h.repo.CreateBatch(ctx, []*entity.LineItem{&r1, &r2}))

	doc, err := h.uc.GenerateFromRepository(ctx, "AFI-02", gst.ModeCGSTSGST)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 1, doc.LineCount)

	doc, err = h.uc.GenerateFromRepository(ctx, "AFI-99", gst.ModeCGSTSGST)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

// ──────────────────────────────────────────────────────────────────────────────
// Share
// ──────────────────────────────────────────────────────────────────────────────

func generated(t *testing.T, h *harness) *billing.GeneratedDocument {
	t.Helper()
	doc, err := h.uc.Generate(context.Background(), billing.GenerateInvoiceRequest{
		BillNumber: "AFI-0377", Rows: []entity.LineItem{row("AFI-0377", "Pedestal Fan", "1", "100")},
	})
	require.NoError(t, err)
	return doc
}

func TestShare_UploadsAndBuildsLinks(t *testing.T) {
	h := newHarness(nil)
	doc := generated(t, h)

	res, err := h.uc.Share(context.Background(), doc, billing.ShareRequest{})
	require.NoError(t, err)

	assert.Equal(t, doc.Bytes, h.store.objects["Invoice_AFI-0377.pdf"])
	assert.Equal(t, "https://files.example.com/Invoice_AFI-0377.pdf?ttl=3600", res.URL)
	assert.Equal(t, "Asha Fan Industries - Invoice for Bill AFI-0377", res.Message)
	assert.Equal(t, time.Date(2025, 3, 5, 7, 10, 0, 0, time.UTC), res.ExpiresAt)
	assert.False(t, res.Emailed)

	require.True(t, strings.HasPrefix(res.WhatsAppURL, "https://wa.me/?text="))
	assert.NotContains(t, res.WhatsAppURL, "+")
	u, err := url.Parse(res.WhatsAppURL)
	require.NoError(t, err)
	assert.Equal(t, res.Message+"\n"+res.URL, u.Query().Get("text"))
}

func TestShare_Email(t *testing.T) {
	h := newHarness(nil)
	doc := generated(t, h)

	res, err := h.uc.Share(context.Background(), doc, billing.ShareRequest{Email: "dealer@example.com"})
	require.NoError(t, err)
	assert.True(t, res.Emailed)
	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "dealer@example.com", h.mailer.sent[0].to)
	assert.Equal(t, "AFI-0377", h.mailer.sent[0].bill)
	assert.Equal(t, res.URL, h.mailer.sent[0].link)
}

func TestShare_NotConfigured(t *testing.T) {
	uc := billing.NewInvoiceUseCase(memory.NewLineItemRepository(), newEngine(), &fakeRenderer{}, nil, newSink(), nil)

	_, err := uc.Share(context.Background(), &billing.GeneratedDocument{Filename: "x.pdf"}, billing.ShareRequest{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = uc.Share(context.Background(), nil, billing.ShareRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestShare_UploadFailure(t *testing.T) {
	h := newHarness(nil)
	doc := generated(t, h)
	h.store.putErr = errBoom

	_, err := h.uc.Share(context.Background(), doc, billing.ShareRequest{})
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, h.mailer.sent)
}
