package dto

// ErrorResponse cuerpo estándar de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// LineShortfallDTO detalle de una línea que bloquea la cancelación de compra.
type LineShortfallDTO struct {
	LineID   string `json:"line_id"`
	ItemID   string `json:"item_id"`
	Expected int64  `json:"expected"`
	OnHand   int64  `json:"on_hand"`
}
