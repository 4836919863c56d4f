package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound                = errors.New("recurso não encontrado")
	ErrValidation              = errors.New("entrada inválida")
	ErrInvalidConfig           = errors.New("configuração tributária inconsistente com o regime")
	ErrUnsupportedBillingModel = errors.New("modelo de cobrança não suportado")
	ErrMissingRateConfig       = errors.New("parâmetro de tarifa ausente no contrato")
	ErrAlreadyBilled           = errors.New("lançamento já faturado")
	ErrEmptyInvoice            = errors.New("nenhum item a faturar no período")
	ErrUnauthorized            = errors.New("não autorizado")
	ErrForbidden               = errors.New("acesso negado")
	ErrConflict                = errors.New("conflito com o estado atual")
	ErrEmailAlreadyExists      = errors.New("o e-mail já está cadastrado")
)
