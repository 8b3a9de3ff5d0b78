package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/application/dto"
	"github.com/jhoicas/asha-billing/internal/application/ports"
	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/pkg/logger"
)

// AnalyzeRowLimit es cuántas filas del registro se envían para el análisis.
const AnalyzeRowLimit = 100

// DefaultAITimeout acota cada llamada al modelo.
const DefaultAITimeout = 30 * time.Second

// AIUseCase ejecuta ediciones y análisis con IA sobre el registro de facturación.
// Cada llamada al modelo tiene su propio deadline y espera en un rate limiter
// compartido para que las ráfagas no agoten la cuota del proveedor.
type AIUseCase struct {
	llm      ports.LLMService
	register *billing.RegisterUseCase
	limiter  *rate.Limiter
	timeout  time.Duration
	log      *logger.Logger
}

// NewAIUseCase construye el caso de uso. perMinute <= 0 desactiva el rate limiting.
func NewAIUseCase(llm ports.LLMService, register *billing.RegisterUseCase, timeout time.Duration, perMinute int, log *logger.Logger) *AIUseCase {
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), 1)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AIUseCase{llm: llm, register: register, limiter: limiter, timeout: timeout, log: log.Component("ai")}
}

// Transform pide al modelo aplicar instruction a todo el registro y devuelve
// las filas propuestas. No se guarda nada; ver Apply.
func (uc *AIUseCase) Transform(ctx context.Context, req dto.AITransformRequest) (*dto.AITransformResponse, error) {
	if strings.TrimSpace(req.Instruction) == "" {
		return nil, fmt.Errorf("%w: instruction is required", domain.ErrInvalidInput)
	}
	items, err := uc.register.Rows(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	if err := uc.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("AI: rate limit: %w", err)
	}

	res, err := uc.llm.TransformRows(ctx, req.Instruction, ToRows(items))
	if err != nil {
		return nil, fmt.Errorf("AI transform: %w", err)
	}

	out := &dto.AITransformResponse{Explanation: res.Explanation, Rows: make([]dto.LineItemRequest, 0, len(res.Rows))}
	for _, r := range res.Rows {
		out.Rows = append(out.Rows, lineItemRequest(FromRow(r)))
	}
	uc.log.Info().Int("rows_in", len(items)).Int("rows_out", len(out.Rows)).Msg("AI transform proposed")
	return out, nil
}

// Analyze resume las primeras AnalyzeRowLimit filas del registro.
func (uc *AIUseCase) Analyze(ctx context.Context) (*dto.AIAnalysisResponse, error) {
	items, err := uc.register.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: the register is empty", domain.ErrInvalidInput)
	}
	if len(items) > AnalyzeRowLimit {
		items = items[:AnalyzeRowLimit]
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	if err := uc.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("AI: rate limit: %w", err)
	}

	res, err := uc.llm.AnalyzeRows(ctx, ToRows(items))
	if err != nil {
		return nil, fmt.Errorf("AI analysis: %w", err)
	}
	return &dto.AIAnalysisResponse{Summary: res.Summary, Insights: res.Insights}, nil
}

// Apply reemplaza el registro con las filas propuestas antes por Transform.
// Una propuesta vacía se rechaza y deja el registro intacto.
func (uc *AIUseCase) Apply(ctx context.Context, req dto.AIApplyRequest) ([]dto.LineItemResponse, error) {
	if len(req.Rows) == 0 {
		return nil, fmt.Errorf("%w: the proposal has no rows", domain.ErrInvalidInput)
	}
	items := make([]entity.LineItem, 0, len(req.Rows))
	for _, r := range req.Rows {
		items = append(items, r.ToEntity())
	}
	return uc.register.Replace(ctx, items)
}

// ToRows convierte filas del registro en mapas por columna, incluidas las Extra.
func ToRows(items []entity.LineItem) []ports.Row {
	out := make([]ports.Row, 0, len(items))
	for _, it := range items {
		row := make(ports.Row, len(entity.RegisterColumns)+len(it.Extra))
		for k, v := range it.Extra {
			row[k] = v
		}
		for i, v := range it.Values() {
			row[entity.RegisterColumns[i]] = v
		}
		out = append(out, row)
	}
	return out
}

// FromRow es la inversa de ToRows para una fila.
func FromRow(r ports.Row) entity.LineItem {
	var it entity.LineItem
	for k, v := range r {
		it.Set(k, v)
	}
	return it
}

func lineItemRequest(it entity.LineItem) dto.LineItemRequest {
	return dto.LineItemRequest{
		BillNumber: it.BillNumber,
		Date:       it.Date,
		Time:       it.Time,
		VehicleNo:  it.VehicleNo,
		DealerName: it.DealerName,
		Location:   it.Location,
		GSTNumber:  it.GSTNumber,
		ItemName:   it.ItemName,
		HSN:        it.HSN,
		Quantity:   it.Quantity,
		Price:      it.Price,
		Extra:      it.Extra,
	}
}
