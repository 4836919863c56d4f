package billing

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/tax"
	"github.com/victorbarbieri91/zyra-billing/pkg/logger"
)

// RPSUseCase exportação do RPS de uma fatura para a prefeitura.
type RPSUseCase struct {
	invoices repository.InvoiceRepository
	clients  repository.ClientRepository
	offices  repository.OfficeRepository
	taxCfg   repository.TaxConfigRepository
	exporter RPSExporter
	log      *logger.Logger
}

// NewRPSUseCase constrói o caso de uso.
func NewRPSUseCase(
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	offices repository.OfficeRepository,
	taxCfg repository.TaxConfigRepository,
	exporter RPSExporter,
	log *logger.Logger,
) *RPSUseCase {
	return &RPSUseCase{
		invoices: invoices,
		clients:  clients,
		offices:  offices,
		taxCfg:   taxCfg,
		exporter: exporter,
		log:      log.Modulo("nfse"),
	}
}

// Export gera o XML do RPS da fatura, com a alíquota de ISS do regime vigente.
func (u *RPSUseCase) Export(ctx context.Context, officeID, invoiceID string) ([]byte, error) {
	inv, err := u.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.OfficeID != officeID {
		return nil, domain.ErrForbidden
	}
	lines, err := u.invoices.GetLines(invoiceID)
	if err != nil {
		return nil, err
	}
	office, err := u.offices.GetByID(officeID)
	if err != nil {
		return nil, err
	}
	if office == nil {
		return nil, domain.ErrNotFound
	}
	client, err := u.clients.GetByID(inv.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	xml, err := u.exporter.Export(inv, lines, office, client, u.issAliquota(officeID))
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("invoice_id", invoiceID).Int("bytes", len(xml)).Msg("RPS exportado")
	return xml, nil
}

// issAliquota devolve a alíquota de ISS do regime do escritório.
// Lucro presumido: alíquota do código iss quando ativo. Simples Nacional:
// alíquota efetiva da faixa. Sem configuração, zero (campo omitido no RPS).
func (u *RPSUseCase) issAliquota(officeID string) decimal.Decimal {
	cfg, err := u.taxCfg.GetByOffice(officeID)
	if err != nil || cfg == nil {
		return decimal.Zero
	}
	switch cfg.Regime {
	case entity.RegimeLucroPresumido:
		if tc, ok := cfg.Presumido[entity.TributoISS]; ok && tc.Active {
			return tc.Rate
		}
	case entity.RegimeSimplesNacional:
		if res, err := tax.Compute(*cfg, decimal.Zero); err == nil {
			return res.EffectiveRate
		}
	}
	return decimal.Zero
}
