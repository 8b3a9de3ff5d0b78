package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/application/dto"
	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/infrastructure/memory"
	"github.com/jhoicas/asha-billing/pkg/logger"
)

func TestValidGSTIN(t *testing.T) {
	assert.True(t, billing.ValidGSTIN("06ABJPT7774Q1ZH"))
	assert.True(t, billing.ValidGSTIN("06ANJPM8264E1ZT"))
	assert.False(t, billing.ValidGSTIN("06ABJPT7774Q0ZH"))
	assert.False(t, billing.ValidGSTIN("06abjpt7774q1zh"))
	assert.False(t, billing.ValidGSTIN("06ABJPT7774Q1Z"))
}

func TestDealer_CRUD(t *testing.T) {
	ctx := context.Background()
	uc := billing.NewDealerUseCase(memory.NewDealerRepository(), nil, pinned, logger.Nop())

	d, err := uc.Create(ctx, dto.DealerRequest{Name: " Sharma Traders ", GSTIN: "06abjpt7774q1zh", Location: "Panipat"})
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", d.Name)
	assert.Equal(t, "06ABJPT7774Q1ZH", d.GSTIN)

	_, err = uc.Create(ctx, dto.DealerRequest{Name: "sharma traders"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.DealerRequest{Name: "Bad", GSTIN: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.DealerRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	upd, err := uc.Update(ctx, d.ID, dto.DealerRequest{Name: "Sharma Traders", Location: "Karnal"})
	require.NoError(t, err)
	assert.Equal(t, "Karnal", upd.Location)

	_, err = uc.Update(ctx, "missing", dto.DealerRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, d.ID))
	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDealer_Sync(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDealerRepository()
	sheet := staticSheet{rows: [][]string{
		{"\ufeffDealer Name", "GST No", "City"},
		{"Sharma Traders", "06ABJPT7774Q1ZH", "Panipat"},
		{"Arora Electricals", "", "Karnal"},
		{"", "", ""},
		{"Broken", "not-a-gstin", "Delhi"},
	}}
	uc := billing.NewDealerUseCase(repo, sheet, pinned, logger.Nop())

	_, err := uc.Create(ctx, dto.DealerRequest{Name: "Sharma Traders", Location: "Old"})
	require.NoError(t, err)

	res, err := uc.Sync(ctx, "https://docs.example.com/sheet.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 5")

	d, err := repo.GetByName(ctx, "Sharma Traders")
	require.NoError(t, err)
	assert.Equal(t, "Panipat", d.Location)
	assert.Equal(t, "06ABJPT7774Q1ZH", d.GSTIN)
}

func TestDealer_SyncErrors(t *testing.T) {
	ctx := context.Background()

	_, err := billing.NewDealerUseCase(memory.NewDealerRepository(), nil, pinned, nil).Sync(ctx, "u")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	uc := billing.NewDealerUseCase(memory.NewDealerRepository(), staticSheet{err: errBoom}, pinned, nil)
	_, err = uc.Sync(ctx, "u")
	assert.ErrorIs(t, err, errBoom)

	uc = billing.NewDealerUseCase(memory.NewDealerRepository(), staticSheet{rows: [][]string{{"gst", "city"}}}, pinned, nil)
	_, err = uc.Sync(ctx, "u")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
