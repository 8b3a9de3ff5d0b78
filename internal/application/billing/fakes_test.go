package billing_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/asha-billing/internal/domain/entity"
	"github.com/jhoicas/asha-billing/internal/domain/invoice"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los puertos de billing
// ──────────────────────────────────────────────────────────────────────────────

type runeMeasurer struct{}

func (runeMeasurer) Width(s string, _ invoice.FontStyle, size float64) float64 {
	return float64(len([]rune(s))) * size * 0.2
}

func (m runeMeasurer) Split(s string, st invoice.FontStyle, size, width float64) []string {
	var lines []string
	cur := ""
	for _, w := range strings.Fields(s) {
		next := strings.TrimSpace(cur + " " + w)
		if cur != "" && m.Width(next, st, size) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = next
	}
	return append(lines, cur)
}

func newEngine() *invoice.Engine {
	return invoice.NewEngine(invoice.DefaultBranding(), runeMeasurer{})
}

type fakeRenderer struct {
	pages []*invoice.Page
	err   error
}

func (r *fakeRenderer) Render(_ context.Context, page *invoice.Page) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.pages = append(r.pages, page)
	return []byte("%PDF-fake " + page.Title), nil
}

type fakeLogo struct {
	logo invoice.Logo
	err  error
}

func (l fakeLogo) Load(context.Context) (invoice.Logo, error) { return l.logo, l.err }

type fakeSink struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func newSink() *fakeSink { return &fakeSink{saved: map[string][]byte{}} }

func (s *fakeSink) Save(_ context.Context, name string, content []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[name] = content
	return "/tmp/out/" + name, nil
}

type fakeStore struct {
	objects map[string][]byte
	putErr  error
}

func (s *fakeStore) Put(_ context.Context, key, _ string, body []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = body
	return nil
}

func (s *fakeStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://files.example.com/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

type sentMail struct{ to, bill, link string }

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendInvoiceLink(_ context.Context, to, bill, link string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, bill, link})
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type staticSheet struct {
	rows [][]string
	err  error
}

func (s staticSheet) Fetch(context.Context, string) ([][]string, error) { return s.rows, s.err }

var errBoom = errors.New("boom")

func row(bill, item, qty, price string) entity.LineItem {
	return entity.LineItem{
		BillNumber: bill,
		Date:       "05-03-2025",
		Time:       "11:40 am",
		DealerName: "Sharma Traders",
		Location:   "Panipat",
		ItemName:   item,
		HSN:        "8414",
		Quantity:   qty,
		Price:      price,
	}
}
