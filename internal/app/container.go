// Package app conecta la configuración con repositorios, adaptadores y casos de uso.
// Ambos binarios construyen sus dependencias aquí.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/application/usecase"
	"github.com/jhoicas/asha-billing/internal/domain/invoice"
	"github.com/jhoicas/asha-billing/internal/domain/repository"
	infraai "github.com/jhoicas/asha-billing/internal/infrastructure/ai"
	"github.com/jhoicas/asha-billing/internal/infrastructure/catalog"
	"github.com/jhoicas/asha-billing/internal/infrastructure/email/ses"
	"github.com/jhoicas/asha-billing/internal/infrastructure/export"
	"github.com/jhoicas/asha-billing/internal/infrastructure/logo"
	"github.com/jhoicas/asha-billing/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/asha-billing/internal/infrastructure/pdf"
	"github.com/jhoicas/asha-billing/internal/infrastructure/postgres"
	"github.com/jhoicas/asha-billing/internal/infrastructure/sheets"
	"github.com/jhoicas/asha-billing/internal/infrastructure/storage/local"
	"github.com/jhoicas/asha-billing/internal/infrastructure/storage/s3"
	"github.com/jhoicas/asha-billing/pkg/config"
	"github.com/jhoicas/asha-billing/pkg/logger"
)

// Container agrupa los casos de uso ya conectados.
type Container struct {
	Items   repository.LineItemRepository
	Dealers repository.DealerRepository

	Register  *billing.RegisterUseCase
	Invoice   *billing.InvoiceUseCase
	Entry     *billing.EntryUseCase
	Export    *billing.ExportUseCase
	Directory *billing.DealerUseCase
	AI        *usecase.AIUseCase

	pool *pgxpool.Pool
}

// Close libera el pool de base de datos, si existe.
func (c *Container) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// Build conecta todo a partir de cfg.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{}

	// ── 1. Repositorios ───────────────────────────────────────────────────────
	if cfg.DB.UsePostgres() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		c.pool = pool
		c.Items = postgres.NewLineItemRepository(pool)
		c.Dealers = postgres.NewDealerRepository(pool)
	} else {
		log.Warn().Msg("DB_DRIVER=memory: the register lives in process and is lost on exit")
		c.Items = memory.NewLineItemRepository()
		c.Dealers = memory.NewDealerRepository()
	}

	// ── 2. Pipeline de facturas ───────────────────────────────────────────────
	metrics, err := infrapdf.NewFontMetrics()
	if err != nil {
		c.Close()
		return nil, err
	}
	brand := invoice.DefaultBranding()
	engine := invoice.NewEngine(brand, metrics)

	var logos billing.LogoSource
	if src := logo.NewSource(cfg.Branding.LogoSource, cfg.Branding.LogoTimeout); src != nil {
		logos = src
	}
	var sink billing.DocumentSink = local.DiscardSink{}
	if cfg.Output.Dir != "" {
		sink = local.NewFileSink(cfg.Output.Dir)
	}

	clock := billing.SystemClock{}
	c.Register = billing.NewRegisterUseCase(c.Items, clock, log)
	c.Invoice = billing.NewInvoiceUseCase(c.Items, engine, infrapdf.NewMarotoPDFGenerator(), logos, sink, log)

	// ── 3. Compartir ──────────────────────────────────────────────────────────
	if cfg.Storage.Enabled() {
		store, err := s3.NewStore(ctx, cfg.Storage)
		if err != nil {
			c.Close()
			return nil, err
		}
		var mailer billing.Mailer
		if cfg.Mail.Enabled() {
			m, err := ses.NewMailer(ctx, cfg.Mail.Region, cfg.Mail.From, brand.DisplayName)
			if err != nil {
				c.Close()
				return nil, err
			}
			mailer = m
		}
		c.Invoice.WithSharing(store, mailer, cfg.Storage.PresignTTL)
	}

	// ── 4. Formulario, exportación, distribuidores, IA ────────────────────────
	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Entry = billing.NewEntryUseCase(c.Register, c.Dealers, cat, clock).WithInvoices(c.Invoice)
	c.Export = billing.NewExportUseCase(c.Register, clock, export.CSVWriter{}, export.XLSXWriter{})
	c.Directory = billing.NewDealerUseCase(c.Dealers, sheets.NewHTTPSource(0), clock, log)
	c.AI = usecase.NewAIUseCase(infraai.New(cfg.AI), c.Register, cfg.AI.Timeout, cfg.AI.RatePerMinute, log)

	return c, nil
}
