package dto

// AITransformRequest cuerpo para POST /api/ai/transform.
type AITransformRequest struct {
	Instruction string `json:"instruction"`
}

// AITransformResponse es el registro propuesto y su justificación.
type AITransformResponse struct {
	Rows        []LineItemRequest `json:"rows"`
	Explanation string            `json:"explanation"`
}

// AIApplyRequest cuerpo para POST /api/ai/apply.
type AIApplyRequest struct {
	Rows []LineItemRequest `json:"rows"`
}

// AIAnalysisResponse es el resumen del registro.
type AIAnalysisResponse struct {
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
}
