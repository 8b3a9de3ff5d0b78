package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/application/dto"
	"github.com/jhoicas/asha-billing/internal/application/ports"
	"github.com/jhoicas/asha-billing/internal/application/usecase"
	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/infrastructure/memory"
	"github.com/jhoicas/asha-billing/pkg/logger"
)

type fakeLLM struct {
	gotRows     []ports.Row
	instruction string
	transform   *ports.TransformResult
	err         error
	block       bool
}

func (f *fakeLLM) TransformRows(ctx context.Context, instruction string, rows []ports.Row) (*ports.TransformResult, error) {
	f.instruction, f.gotRows = instruction, rows
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.transform, f.err
}

func (f *fakeLLM) AnalyzeRows(_ context.Context, rows []ports.Row) (*ports.AnalysisResult, error) {
	f.gotRows = rows
	if f.err != nil {
		return nil, f.err
	}
	return &ports.AnalysisResult{Summary: fmt.Sprintf("%d rows", len(rows)), Insights: []string{"ok"}}, nil
}

func seeded(t *testing.T, n int) *billing.RegisterUseCase {
	t.Helper()
	reg := billing.NewRegisterUseCase(memory.NewLineItemRepository(), nil, logger.Nop())
	rows := make([]dto.LineItemRequest, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, dto.LineItemRequest{BillNumber: fmt.Sprintf("AFI-0%d", i), ItemName: "pedestal fan", Quantity: "1", Price: "600"})
	}
	if n > 0 {
		_, err := reg.AddMany(context.Background(), rows)
		require.NoError(t, err)
	}
	return reg
}

func TestAI_Transform(t *testing.T) {
	reg := seeded(t, 2)
	llm := &fakeLLM{transform: &ports.TransformResult{
		Rows: []ports.Row{
			{"Bill Number": "AFI-00", "Item Name": "Pedestal Fan", "Quantity": "1", "Price": "600", "Remarks": "fixed"},
		},
		Explanation: "Title case",
	}}
	uc := usecase.NewAIUseCase(llm, reg, time.Second, 0, nil)

	res, err := uc.Transform(context.Background(), dto.AITransformRequest{Instruction: "title case"})
	require.NoError(t, err)
	assert.Equal(t, "title case", llm.instruction)
	require.Len(t, llm.gotRows, 2)
	assert.Equal(t, "pedestal fan", llm.gotRows[0]["Item Name"])

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Pedestal Fan", res.Rows[0].ItemName)
	assert.Equal(t, "fixed", res.Rows[0].Extra["Remarks"])
	assert.Equal(t, "Title case", res.Explanation)

	// No se guarda nada hasta Apply.
	rows, _ := reg.Rows(context.Background())
	assert.Len(t, rows, 2)

	applied, err := uc.Apply(context.Background(), dto.AIApplyRequest{Rows: res.Rows})
	require.NoError(t, err)
	require.Len(t, applied, 1)
	rows, _ = reg.Rows(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, "Pedestal Fan", rows[0].ItemName)
}

func TestAI_TransformValidationAndErrors(t *testing.T) {
	reg := seeded(t, 1)

	uc := usecase.NewAIUseCase(&fakeLLM{}, reg, time.Second, 0, nil)
	_, err := uc.Transform(context.Background(), dto.AITransformRequest{Instruction: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	boom := errors.New("quota")
	uc = usecase.NewAIUseCase(&fakeLLM{err: boom}, reg, time.Second, 0, nil)
	_, err = uc.Transform(context.Background(), dto.AITransformRequest{Instruction: "x"})
	assert.ErrorIs(t, err, boom)

	uc = usecase.NewAIUseCase(&fakeLLM{block: true}, reg, 20*time.Millisecond, 0, nil)
	_, err = uc.Transform(context.Background(), dto.AITransformRequest{Instruction: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAI_ApplyKeepsRegisterOnBadProposal(t *testing.T) {
	ctx := context.Background()
	reg := seeded(t, 3)
	uc := usecase.NewAIUseCase(&fakeLLM{}, reg, time.Second, 0, nil)

	_, err := uc.Apply(ctx, dto.AIApplyRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Apply(ctx, dto.AIApplyRequest{Rows: []dto.LineItemRequest{
		{BillNumber: "AFI-00", ItemName: "Pedestal Fan"},
		{ItemName: "Air Cooler"},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rows, err := reg.Rows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestAI_AnalyzeCapsRows(t *testing.T) {
	llm := &fakeLLM{}
	uc := usecase.NewAIUseCase(llm, seeded(t, 120), time.Second, 0, nil)

	res, err := uc.Analyze(context.Background())
	require.NoError(t, err)
	assert.Len(t, llm.gotRows, usecase.AnalyzeRowLimit)
	assert.Equal(t, "100 rows", res.Summary)

	_, err = usecase.NewAIUseCase(llm, seeded(t, 0), time.Second, 0, nil).Analyze(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAI_RateLimited(t *testing.T) {
	// Una llamada por minuto: la segunda no obtiene token antes de su deadline.
	uc := usecase.NewAIUseCase(&fakeLLM{}, seeded(t, 1), 50*time.Millisecond, 1, nil)

	_, err := uc.Analyze(context.Background())
	require.NoError(t, err)
	_, err = uc.Analyze(context.Background())
	assert.Error(t, err)
}

func TestRowsRoundTrip(t *testing.T) {
	in := entity.LineItem{BillNumber: "AFI-01", Price: "10", Extra: map[string]string{"Note": "n"}}
	rows := usecase.ToRows([]entity.LineItem{in})
	require.Len(t, rows, 1)
	assert.Equal(t, "AFI-01", rows[0]["Bill Number"])
	assert.Equal(t, "n", rows[0]["Note"])

	back := usecase.FromRow(rows[0])
	assert.Equal(t, in.BillNumber, back.BillNumber)
	assert.Equal(t, in.Price, back.Price)
	assert.Equal(t, in.Extra, back.Extra)
}
