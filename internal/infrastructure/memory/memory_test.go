package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/infrastructure/memory"
)

func TestLineItemRepo_OrderAndBills(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLineItemRepository()

	require.NoError(t, repo.CreateBatch(ctx, []*entity.LineItem{
		{ID: "1", BillNumber: "AFI-0377", ItemName: "Pedestal Fan"},
		{ID: "2", BillNumber: "AFI-0378", ItemName: "Air Cooler"},
		{ID: "3", BillNumber: "AFI-0377", ItemName: "Ceiling Fan"},
		{ID: "4", BillNumber: "", ItemName: "orphan"},
	}))

	rows, err := repo.ListByBill(ctx, "AFI-0377")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pedestal Fan", rows[0].ItemName)
	assert.Equal(t, "Ceiling Fan", rows[1].ItemName)

	none, err := repo.ListByBill(ctx, "afi-0377")
	require.NoError(t, err)
	assert.Empty(t, none)

	bills, err := repo.BillNumbers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AFI-0377", "AFI-0378"}, bills)
}

func TestLineItemRepo_BillTotals(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLineItemRepository()

	require.NoError(t, repo.CreateBatch(ctx, []*entity.LineItem{
		{ID: "1", BillNumber: "AFI-0377", Quantity: "10", Price: "600"},
		{ID: "2", BillNumber: "AFI-0378", Quantity: "1", Price: "5000/-"},
		{ID: "3", BillNumber: "AFI-0377", Quantity: "2.5", Price: "abc"},
		{ID: "4", BillNumber: "", Quantity: "1", Price: "1"},
	}))

	totals, err := repo.BillTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "AFI-0377", totals[0].BillNumber)
	assert.Equal(t, 2, totals[0].Lines)
	assert.Equal(t, "6000", totals[0].Taxable.String())
	assert.Equal(t, "AFI-0378", totals[1].BillNumber)
	assert.Equal(t, "5000", totals[1].Taxable.String())
}

func TestLineItemRepo_Mutations(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLineItemRepository()

	item := &entity.LineItem{ID: "1", BillNumber: "AFI-01", Extra: map[string]string{"Note": "x"}}
	require.NoError(t, repo.Create(ctx, item))
	assert.ErrorIs(t, repo.Create(ctx, item), domain.ErrDuplicate)

	// Las filas guardadas son copias.
	item.Extra["Note"] = "changed"
	got, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Extra["Note"])

	got.Quantity = "5"
	require.NoError(t, repo.Update(ctx, got))
	got, _ = repo.GetByID(ctx, "1")
	assert.Equal(t, "5", got.Quantity)

	assert.ErrorIs(t, repo.Update(ctx, &entity.LineItem{ID: "missing"}), domain.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "1"))
	assert.ErrorIs(t, repo.Delete(ctx, "1"), domain.ErrNotFound)

	missing, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.ReplaceAll(ctx, []*entity.LineItem{{ID: "9"}}))
	all, _ := repo.List(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "9", all[0].ID)
}

func TestDealerRepo(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDealerRepository()

	require.NoError(t, repo.Create(ctx, &entity.Dealer{ID: "b", Name: "Sharma Traders"}))
	require.NoError(t, repo.Create(ctx, &entity.Dealer{ID: "a", Name: "Arora Electricals"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Dealer{ID: "c", Name: " sharma traders "}), domain.ErrDuplicate)

	d, err := repo.GetByName(ctx, "SHARMA TRADERS")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "b", d.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Arora Electricals", list[0].Name)

	assert.ErrorIs(t, repo.Update(ctx, &entity.Dealer{ID: "a", Name: "Sharma Traders"}), domain.ErrDuplicate)
	require.NoError(t, repo.Delete(ctx, "a"))
	gone, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
