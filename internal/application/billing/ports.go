package billing

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
)

// TxRunner executa fn com repositórios presos a uma transação PostgreSQL.
// Criar a fatura e marcar os lançamentos como faturados é uma unidade atômica:
// conclusão parcial permitiria dupla cobrança ou perda silenciosa de honorário.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		entries repository.TimesheetRepository,
		invoices repository.InvoiceRepository,
	) error) error
}

// RPSExporter gera o XML do RPS (layout ABRASF) de uma fatura emitida,
// assinado quando o escritório tem certificado configurado.
type RPSExporter interface {
	Export(inv *entity.Invoice, lines []*entity.InvoiceLineItem, office *entity.Office, client *entity.Client, aliquota decimal.Decimal) ([]byte, error)
}
