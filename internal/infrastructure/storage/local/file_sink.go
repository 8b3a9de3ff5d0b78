// Package local guarda las facturas generadas en un directorio del disco.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appbilling "github.com/jhoicas/asha-billing/internal/application/billing"
)

var _ appbilling.DocumentSink = (*FileSink)(nil)

// FileSink implementa billing.DocumentSink escribiendo en Dir.
type FileSink struct {
	Dir string
}

// NewFileSink construye un sink para dir. El directorio se crea al primer guardado.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Save escribe content en Dir/filename y devuelve la ruta absoluta. Los
// separadores de ruta en filename se reemplazan para que un número de cuenta no salga de Dir.
func (s *FileSink) Save(ctx context.Context, filename string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := SafeFilename(filename)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("local: create %s: %w", s.Dir, err)
	}
	target := filepath.Join(s.Dir, name)

	// Primero a un archivo temporal para que nadie lea medio PDF.
	tmp, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("local: create temp file: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("local: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("local: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("local: rename %s: %w", name, err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return target, nil
	}
	return abs, nil
}

// SafeFilename reemplaza separadores de ruta y otros caracteres que no son
// portables en nombres de archivo.
func SafeFilename(name string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "-", "?", "-", "\"", "-", "<", "-", ">", "-", "|", "-")
	name = strings.TrimSpace(r.Replace(name))
	if name == "" || name == "." || name == ".." {
		return "invoice.pdf"
	}
	return name
}

// DiscardSink es un DocumentSink que no guarda nada. La API HTTP envía
// el PDF al cliente, que es donde se guarda.
type DiscardSink struct{}

// Save implementa billing.DocumentSink.
func (DiscardSink) Save(_ context.Context, filename string, _ []byte) (string, error) {
	return "client:" + filename, nil
}
