// Package logger es el wrapper de zerolog que se inyecta en casos de uso y handlers.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config del logger.
type Config struct {
	Env   string // development -> consola; cualquier otro -> JSON
	Level string // trace, debug, info, warn, error; uno desconocido significa info
}

// Logger envuelve zerolog para poder inyectarlo.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger del proceso y lo instala como global de zerolog.
// La salida de desarrollo va con colores e incluye el caller.
func New(cfg Config) *Logger {
	ctx := zerolog.New(os.Stdout).With().Timestamp()
	if cfg.Env == "development" {
		ctx = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Caller()
	}
	zl := ctx.Logger().Level(level(cfg.Level))
	log.Logger = zl
	return &Logger{zl: zl}
}

// NewWithWriter registra JSON en w.
func NewWithWriter(w io.Writer, lvl string) *Logger {
	return &Logger{zl: zerolog.New(w).Level(level(lvl)).With().Timestamp().Logger()}
}

// Nop descarta todo.
func Nop() *Logger { return &Logger{zl: zerolog.Nop()} }

func level(s string) zerolog.Level {
	l, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return l
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component devuelve un logger hijo etiquetado con component=name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}
