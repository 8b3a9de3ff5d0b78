// Package logo carga la imagen del membrete desde una URL o un archivo local.
package logo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	appbilling "github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/domain/invoice"
)

// MaxLogoBytes limita el tamaño de un logo descargado.
const MaxLogoBytes = 4 << 20

// RetryAfter es cuánto se recuerda una carga fallida antes del siguiente intento.
const RetryAfter = 30 * time.Second

// ErrUnsupportedFormat se devuelve para todo lo que no sea PNG o JPEG.
var ErrUnsupportedFormat = errors.New("logo: unsupported image format")

var _ appbilling.LogoSource = (*Source)(nil)

// Source implementa billing.LogoSource. Una carga exitosa queda en caché
// durante toda la vida del proceso y un fallo durante RetryAfter. Las llamadas
// concurrentes comparten una sola descarga; el lock solo protege el resultado.
type Source struct {
	location string
	client   *http.Client
	clock    appbilling.Clock
	flight   singleflight.Group

	mu      sync.Mutex
	cached  *invoice.Logo
	failure error
	retryAt time.Time
}

// NewSource construye una fuente para location, una URL http(s) o una ruta.
// Devuelve nil si location está vacía, así se renderiza sin logo.
func NewSource(location string, timeout time.Duration) *Source {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Source{
		location: location,
		client:   &http.Client{Timeout: timeout},
		clock:    appbilling.SystemClock{},
	}
}

// WithClock reemplaza el reloj que mide la caché de fallos.
func (s *Source) WithClock(clock appbilling.Clock) *Source {
	s.clock = clock
	return s
}

// Load implementa billing.LogoSource.
func (s *Source) Load(ctx context.Context) (invoice.Logo, error) {
	if l, hit, err := s.remembered(); hit {
		return l, err
	}
	v, err, _ := s.flight.Do(s.location, func() (interface{}, error) {
		// Una descarga que terminó justo antes de que esta empezara puede haber
		// llenado ya la caché.
		if l, hit, err := s.remembered(); hit {
			return l, err
		}
		l, err := s.load(ctx)
		s.remember(ctx, l, err)
		return l, err
	})
	if err != nil {
		return invoice.NoLogo(), err
	}
	return v.(invoice.Logo), nil
}

func (s *Source) remembered() (invoice.Logo, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.cached != nil:
		return *s.cached, true, nil
	case s.failure != nil && s.clock.Now().Before(s.retryAt):
		return invoice.NoLogo(), true, s.failure
	}
	return invoice.NoLogo(), false, nil
}

func (s *Source) remember(ctx context.Context, l invoice.Logo, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.cached, s.failure = &l, nil
		return
	}
	// Un llamador cancelado no dice nada sobre el logo en sí.
	if ctx.Err() != nil {
		return
	}
	s.failure, s.retryAt = err, s.clock.Now().Add(RetryAfter)
}

func (s *Source) load(ctx context.Context) (invoice.Logo, error) {
	var (
		data []byte
		err  error
	)
	if isRemote(s.location) {
		data, err = s.fetch(ctx)
	} else {
		data, err = readFile(s.location)
	}
	if err != nil {
		return invoice.NoLogo(), err
	}

	format, err := Sniff(data)
	if err != nil {
		return invoice.NoLogo(), err
	}
	return invoice.LogoFromBytes(data, format), nil
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("logo: build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logo: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("logo: fetch: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("logo: read body: %w", err)
	}
	if len(data) > MaxLogoBytes {
		return nil, fmt.Errorf("logo: larger than %d bytes", MaxLogoBytes)
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("logo: read %s: %w", path, err)
	}
	return data, nil
}

// Sniff indica "png" o "jpeg" según los bytes mágicos de la imagen.
func Sniff(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/png":
		return "png", nil
	case "image/jpeg":
		return "jpeg", nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
