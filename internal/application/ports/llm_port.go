package ports

import "context"

// Row es una fila del registro indexada por nombre de columna ("Bill Number", "Price", ...).
type Row = map[string]string

// TransformResult es la reescritura del registro hecha por el modelo.
type TransformResult struct {
	Rows        []Row
	Explanation string
}

// AnalysisResult es el resumen del registro hecho por el modelo.
type AnalysisResult struct {
	Summary  string
	Insights []string
}

// LLMService es el puerto de salida hacia el modelo de lenguaje. Los adaptadores
// (Gemini, OpenAI, Anthropic) lo implementan; la aplicación solo conoce este contrato.
// Quien llama pasa un contexto con deadline.
type LLMService interface {
	// TransformRows aplica una instrucción en texto libre a rows y devuelve el
	// conjunto de datos completo actualizado.
	TransformRows(ctx context.Context, instruction string, rows []Row) (*TransformResult, error)
	// AnalyzeRows resume rows.
	AnalyzeRows(ctx context.Context, rows []Row) (*AnalysisResult, error)
}
