package billing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/gst"
	"github.com/jhoicas/asha-billing/internal/domain/invoice"
	"github.com/jhoicas/asha-billing/internal/domain/repository"
	"github.com/jhoicas/asha-billing/pkg/logger"
)

// PDFContentType de todo documento generado.
const PDFContentType = "application/pdf"

// DefaultShareTTL es cuánto dura un enlace compartido si no se configura otro valor.
const DefaultShareTTL = 24 * time.Hour

// GenerateInvoiceRequest selecciona de Rows las filas de una cuenta.
type GenerateInvoiceRequest struct {
	BillNumber string
	Mode       gst.TaxMode
	Rows       []entity.LineItem
}

// GeneratedDocument es una factura renderizada y el lugar donde se guardó.
type GeneratedDocument struct {
	BillNumber  string
	Filename    string
	ContentType string
	Bytes       []byte
	SavedAt     string
	Mode        gst.TaxMode
	LineCount   int
	GrandTotal  decimal.Decimal
	Words       string
	// WordsOverflow se marca cuando el total es demasiado grande para escribirlo en letras.
	WordsOverflow bool
}

// ShareRequest opcionalmente indica un destinatario de correo.
type ShareRequest struct {
	Email string
}

// ShareResult trae el enlace a la factura subida.
type ShareResult struct {
	Key         string
	URL         string
	Message     string
	WhatsAppURL string
	ExpiresAt   time.Time
	Emailed     bool
}

// InvoiceFilename es el nombre con el que se guarda el PDF de una cuenta.
func InvoiceFilename(billNumber string) string {
	return "Invoice_" + billNumber + ".pdf"
}

// ShareMessage es el texto que acompaña a una factura compartida.
func ShareMessage(companyName, billNumber string) string {
	return fmt.Sprintf("%s - Invoice for Bill %s", companyName, billNumber)
}

// WhatsAppLink arma un enlace wa.me que precarga el texto.
func WhatsAppLink(text string) string {
	// wa.me espera %20, no +.
	return "https://wa.me/?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// ── Caso de uso ───────────────────────────────────────────────────────────────

// InvoiceUseCase arma, renderiza y guarda facturas de impuestos.
type InvoiceUseCase struct {
	items    repository.LineItemRepository
	engine   *invoice.Engine
	renderer InvoiceRenderer
	logos    LogoSource
	sink     DocumentSink
	log      *logger.Logger

	store    ArtifactStore
	mailer   Mailer
	shareTTL time.Duration
	clock    Clock
}

// NewInvoiceUseCase conecta el pipeline. logos puede ser nil (sin logo).
func NewInvoiceUseCase(
	items repository.LineItemRepository,
	engine *invoice.Engine,
	renderer InvoiceRenderer,
	logos LogoSource,
	sink DocumentSink,
	log *logger.Logger,
) *InvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{
		items:    items,
		engine:   engine,
		renderer: renderer,
		logos:    logos,
		sink:     sink,
		log:      log.Component("invoice"),
		shareTTL: DefaultShareTTL,
		clock:    SystemClock{},
	}
}

// WithSharing habilita Share. mailer puede ser nil.
func (uc *InvoiceUseCase) WithSharing(store ArtifactStore, mailer Mailer, ttl time.Duration) *InvoiceUseCase {
	uc.store = store
	uc.mailer = mailer
	if ttl > 0 {
		uc.shareTTL = ttl
	}
	return uc
}

// WithClock reemplaza el reloj de pared.
func (uc *InvoiceUseCase) WithClock(c Clock) *InvoiceUseCase {
	uc.clock = c
	return uc
}

// Generate renderiza la factura de req.BillNumber y la guarda.
//
// Devuelve:
//   - (nil, nil) cuando ninguna fila tiene ese número de cuenta.
//   - (doc, nil) en otro caso, incluso si el total no cabe en letras
//     (doc.WordsOverflow queda marcado y la línea en letras lo indica).
//   - un error envuelto si falla el layout, el render o el guardado.
func (uc *InvoiceUseCase) Generate(ctx context.Context, req GenerateInvoiceRequest) (*GeneratedDocument, error) {
	// ── 1. Copiar y filtrar ───────────────────────────────────────────────────
	rows := make([]entity.LineItem, 0, len(req.Rows))
	for _, r := range req.Rows {
		if r.BillNumber == req.BillNumber {
			rows = append(rows, r.Clone())
		}
	}
	if len(rows) == 0 {
		uc.log.Debug().Str("bill", req.BillNumber).Msg("no rows for bill")
		return nil, nil
	}

	// ── 2. Logo ───────────────────────────────────────────────────────────────
	logo := invoice.NoLogo()
	if uc.logos != nil {
		l, err := uc.logos.Load(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Str("bill", req.BillNumber).Msg("logo unavailable, rendering without it")
		} else {
			logo = l
		}
	}

	// ── 3. Totales ────────────────────────────────────────────────────────────
	agg, err := gst.ComputeAggregate(rows, req.Mode)
	if err != nil {
		if !errors.Is(err, domain.ErrAmountOverflow) {
			return nil, fmt.Errorf("invoice: compute totals: %w", err)
		}
		uc.log.Warn().Str("bill", req.BillNumber).Str("total", agg.GrandTotal.String()).
			Msg("grand total too large for words")
	}

	// ── 4. Diagramación ───────────────────────────────────────────────────────
	schema := gst.SelectSchema(req.Mode, invoice.A4Width, invoice.Margin)
	page, err := uc.engine.Layout(agg, schema, logo)
	if err != nil {
		return nil, fmt.Errorf("invoice: layout: %w", err)
	}
	if page.Overflows() {
		uc.log.Info().Str("bill", req.BillNumber).Int("lines", len(rows)).Msg("invoice continues on a second page")
	}

	// ── 5. Render ─────────────────────────────────────────────────────────────
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := uc.renderer.Render(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("invoice: render: %w", err)
	}

	// ── 6. Guardar ────────────────────────────────────────────────────────────
	filename := InvoiceFilename(req.BillNumber)
	savedAt, err := uc.sink.Save(ctx, filename, content)
	if err != nil {
		return nil, fmt.Errorf("invoice: save %s: %w", filename, err)
	}

	uc.log.Info().
		Str("bill", req.BillNumber).
		Str("mode", req.Mode.String()).
		Int("lines", len(rows)).
		Str("total", gst.FormatMoney(agg.GrandTotal)).
		Str("saved_at", savedAt).
		Msg("invoice generated")

	return &GeneratedDocument{
		BillNumber:    req.BillNumber,
		Filename:      filename,
		ContentType:   PDFContentType,
		Bytes:         content,
		SavedAt:       savedAt,
		Mode:          req.Mode,
		LineCount:     len(rows),
		GrandTotal:    agg.GrandTotal,
		Words:         agg.Words,
		WordsOverflow: agg.WordsOverflow,
	}, nil
}

// GenerateFromRepository genera la factura de billNumber a partir del
// registro almacenado.
func (uc *InvoiceUseCase) GenerateFromRepository(ctx context.Context, billNumber string, mode gst.TaxMode) (*GeneratedDocument, error) {
	stored, err := uc.items.ListByBill(ctx, billNumber)
	if err != nil {
		return nil, fmt.Errorf("invoice: load rows: %w", err)
	}
	rows := make([]entity.LineItem, 0, len(stored))
	for _, r := range stored {
		rows = append(rows, *r)
	}
	return uc.Generate(ctx, GenerateInvoiceRequest{BillNumber: billNumber, Mode: mode, Rows: rows})
}

// Share sube doc y devuelve un enlace temporal más un enlace de WhatsApp
// que lo contiene. Si req.Email está definido y hay mailer, el enlace también
// se envía por correo; un fallo del correo se devuelve tras una subida exitosa.
func (uc *InvoiceUseCase) Share(ctx context.Context, doc *GeneratedDocument, req ShareRequest) (*ShareResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document to share", domain.ErrInvalidInput)
	}
	if uc.store == nil {
		return nil, fmt.Errorf("%w: object storage", domain.ErrNotConfigured)
	}

	// ── 1. Subir ──────────────────────────────────────────────────────────────
	key := doc.Filename
	if err := uc.store.Put(ctx, key, doc.ContentType, doc.Bytes); err != nil {
		return nil, fmt.Errorf("share: upload: %w", err)
	}

	// ── 2. Prefirmar ──────────────────────────────────────────────────────────
	link, err := uc.store.PresignGet(ctx, key, uc.shareTTL)
	if err != nil {
		return nil, fmt.Errorf("share: presign: %w", err)
	}

	message := ShareMessage(uc.engine.Branding().DisplayName, doc.BillNumber)
	res := &ShareResult{
		Key:         key,
		URL:         link,
		Message:     message,
		WhatsAppURL: WhatsAppLink(message + "\n" + link),
		ExpiresAt:   uc.clock.Now().Add(uc.shareTTL),
	}

	// ── 3. Correo ─────────────────────────────────────────────────────────────
	if req.Email == "" {
		return res, nil
	}
	if uc.mailer == nil {
		return res, fmt.Errorf("%w: email", domain.ErrNotConfigured)
	}
	if err := uc.mailer.SendInvoiceLink(ctx, req.Email, doc.BillNumber, link); err != nil {
		return res, fmt.Errorf("share: email: %w", err)
	}
	res.Emailed = true

	uc.log.Info().Str("bill", doc.BillNumber).Bool("emailed", res.Emailed).Msg("invoice shared")
	return res, nil
}
