package billing

import (
	"context"
	"time"

	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/invoice"
)

// InvoiceRenderer convierte una página posicionada en bytes PDF.
type InvoiceRenderer interface {
	Render(ctx context.Context, page *invoice.Page) ([]byte, error)
}

// LogoSource carga el logo del membrete. Un error significa "renderizar sin él".
type LogoSource interface {
	Load(ctx context.Context) (invoice.Logo, error)
}

// DocumentSink persiste un PDF generado y devuelve dónde quedó
// (una ruta, una URL o una descripción corta).
type DocumentSink interface {
	Save(ctx context.Context, filename string, content []byte) (string, error)
}

// ArtifactStore guarda facturas compartidas y entrega enlaces temporales.
type ArtifactStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Mailer envía el enlace compartido a un destinatario.
type Mailer interface {
	SendInvoiceLink(ctx context.Context, to, billNumber, link string) error
}

// SheetSource descarga una hoja publicada de distribuidores y devuelve sus
// filas, cabecera primero.
type SheetSource interface {
	Fetch(ctx context.Context, url string) ([][]string, error)
}

// CatalogSource provee los artículos que el formulario puede facturar.
type CatalogSource interface {
	Catalog() entity.Catalog
}

// Clock devuelve la hora actual. Se inyecta para fijarla en los tests.
type Clock interface {
	Now() time.Time
}

// SystemClock es el reloj de pared.
type SystemClock struct{}

// Now implementa Clock.
func (SystemClock) Now() time.Time { return time.Now() }
