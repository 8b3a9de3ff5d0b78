package gst_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asha-billing/internal/domain"
	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/gst"
)

func row(bill, qty, price string) entity.LineItem {
	return entity.LineItem{BillNumber: bill, ItemName: "Pedestal Fan", Quantity: qty, Price: price}
}

func money(t *testing.T, d decimal.Decimal) string {
	t.Helper()
	return gst.FormatMoney(d)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cifras por línea
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeLine_CGSTSGST(t *testing.T) {
	l := gst.ComputeLine(row("AFI-0377", "40", "600"), gst.ModeCGSTSGST)

	assert.Equal(t, "24000.00", money(t, l.Taxable))
	assert.Equal(t, "2160.00", money(t, l.Component(gst.BandCGST)))
	assert.Equal(t, "2160.00", money(t, l.Component(gst.BandSGST)))
	assert.True(t, l.Component(gst.BandIGST).IsZero())
	assert.Equal(t, "28320.00", money(t, l.Total))
}

func TestComputeLine_IGST(t *testing.T) {
	l := gst.ComputeLine(row("AFI-0377", "40", "600"), gst.ModeIGST)

	assert.Equal(t, "24000.00", money(t, l.Taxable))
	assert.Equal(t, "4320.00", money(t, l.Component(gst.BandIGST)))
	require.Len(t, l.Components, 1)
	assert.Equal(t, "28320.00", money(t, l.Total))
}

func TestComputeLine_ModeNeverChangesTotal(t *testing.T) {
	inputs := [][2]string{{"1", "0.01"}, {"3", "333.33"}, {"7.5", "19.99"}, {"1000", "1234.56"}}
	for _, in := range inputs {
		r := row("B", in[0], in[1])
		a := gst.ComputeLine(r, gst.ModeCGSTSGST)
		b := gst.ComputeLine(r, gst.ModeIGST)

		assert.True(t, a.Total.Equal(b.Total), "qty=%s price=%s", in[0], in[1])
		assert.True(t, a.Tax().Equal(a.Taxable.Mul(gst.RateCombined)))
		assert.True(t, a.Component(gst.BandCGST).Equal(a.Component(gst.BandSGST)))
	}
}

func TestComputeLine_EmptyQuantityIsZero(t *testing.T) {
	l := gst.ComputeLine(row("B", "", "600"), gst.ModeCGSTSGST)

	assert.True(t, l.Taxable.IsZero())
	assert.True(t, l.Tax().IsZero())
	assert.True(t, l.Total.IsZero())
}

func TestParseAmount_Lenient(t *testing.T) {
	cases := map[string]string{
		"40":     "40",
		" 12.5 ": "12.5",
		"600/-":  "600",
		"2.":     "2",
		"abc":    "0",
		"":       "0",
		"-3":     "-3",
	}
	for in, want := range cases {
		assert.Equal(t, want, gst.ParseAmount(in).String(), "input %q", in)
	}
}

func TestParseAmount_Bounded(t *testing.T) {
	cases := map[string]string{
		"1e5":              "100000",
		"1e5000000":        "0",
		"-1e5000000":       "0",
		"1e-5000000":       "0",
		"999999999999999":  "999999999999999",
		"1000000000000000": "0",
		"2.12345678":       "2.123456",
		"7E20 pcs":         "0",
	}
	for in, want := range cases {
		assert.Equal(t, want, gst.ParseAmount(in).String(), "input %q", in)
	}
}

func TestComputeLine_HugeExponentFormatsQuickly(t *testing.T) {
	l := gst.ComputeLine(entity.LineItem{BillNumber: "B", Quantity: "1e5000000", Price: "1"}, gst.ModeIGST)

	assert.Equal(t, "0.00", gst.FormatMoney(l.Total))
	assert.Equal(t, "0", gst.FormatQuantity(l.Quantity))
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregado
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeAggregate_SumsLineTotals(t *testing.T) {
	items := []entity.LineItem{row("B1", "1", "1000"), row("B1", "2", "1000")}

	for _, mode := range []gst.TaxMode{gst.ModeIGST, gst.ModeCGSTSGST} {
		agg, err := gst.ComputeAggregate(items, mode)
		require.NoError(t, err)
		assert.Equal(t, "3540.00", gst.FormatMoney(agg.GrandTotal), mode.String())
		assert.Equal(t, "3000.00", gst.FormatMoney(agg.TaxableTotal))
		assert.Equal(t, "540.00", gst.FormatMoney(agg.TaxTotal))
		assert.Equal(t, "Three Thousand Five Hundred and Forty Only", agg.Words)
		assert.Equal(t, 1, agg.Lines[0].Index)
		assert.Equal(t, 2, agg.Lines[1].Index)
	}
}

func TestComputeAggregate_OrderInvariant(t *testing.T) {
	a := []entity.LineItem{row("B", "3", "17.35"), row("B", "1", "999.99"), row("B", "12", "0.07")}
	b := []entity.LineItem{a[2], a[0], a[1]}

	x, err := gst.ComputeAggregate(a, gst.ModeCGSTSGST)
	require.NoError(t, err)
	y, err := gst.ComputeAggregate(b, gst.ModeCGSTSGST)
	require.NoError(t, err)

	assert.True(t, x.GrandTotal.Equal(y.GrandTotal))
}

func TestComputeAggregate_NoRounding(t *testing.T) {
	// 3 × 0.333 gravable cada una: redondear por línea desviaría el total.
	items := []entity.LineItem{row("B", "1", "0.333"), row("B", "1", "0.333"), row("B", "1", "0.333")}
	agg, err := gst.ComputeAggregate(items, gst.ModeCGSTSGST)
	require.NoError(t, err)

	assert.Equal(t, "1.17882", agg.GrandTotal.String())
	assert.Equal(t, "1.18", gst.FormatMoney(agg.GrandTotal))
}

func TestComputeAggregate_EmptyRowStillCounted(t *testing.T) {
	items := []entity.LineItem{row("B", "40", "600"), row("B", "", "")}
	agg, err := gst.ComputeAggregate(items, gst.ModeIGST)
	require.NoError(t, err)

	require.Len(t, agg.Lines, 2)
	assert.True(t, agg.Lines[1].Total.IsZero())
	assert.Equal(t, "28320.00", gst.FormatMoney(agg.GrandTotal))
}

func TestComputeAggregate_Empty(t *testing.T) {
	_, err := gst.ComputeAggregate(nil, gst.ModeIGST)
	assert.ErrorIs(t, err, domain.ErrNoMatchingRows)
}

func TestComputeAggregate_OverflowKeepsFigures(t *testing.T) {
	items := []entity.LineItem{row("B", "1000", "1000000")}
	agg, err := gst.ComputeAggregate(items, gst.ModeIGST)

	assert.ErrorIs(t, err, domain.ErrAmountOverflow)
	assert.True(t, agg.WordsOverflow)
	assert.Empty(t, agg.Words)
	assert.Equal(t, "1180000000.00", gst.FormatMoney(agg.GrandTotal))
}

func TestComputeAggregate_NegativeTotalSpelledWithMinus(t *testing.T) {
	items := []entity.LineItem{row("AFI-0400", "-2", "600")}
	agg, err := gst.ComputeAggregate(items, gst.ModeCGSTSGST)
	require.NoError(t, err)

	assert.Equal(t, "-1416.00", gst.FormatMoney(agg.GrandTotal))
	assert.Equal(t, "Minus One Thousand Four Hundred and Sixteen Only", agg.Words)
	assert.False(t, agg.WordsOverflow)
}

func TestComputeAggregate_SmallNegativeFractionIsZero(t *testing.T) {
	agg, err := gst.ComputeAggregate([]entity.LineItem{row("B", "-1", "0.5")}, gst.ModeIGST)
	require.NoError(t, err)

	assert.Equal(t, "Zero Only", agg.Words)
}
