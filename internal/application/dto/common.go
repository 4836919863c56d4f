package dto

// ErrorResponse payload padrão de erro da API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkFailure falha individual em uma operação em lote.
type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkResultResponse resultado por id de uma operação em lote (melhor esforço:
// falhas não revertem os ids já aplicados).
type BulkResultResponse struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}
