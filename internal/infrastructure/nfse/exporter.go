package nfse

import (
	"crypto/tls"

	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/application/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/pkg/config"
)

var _ billing.RPSExporter = (*Exporter)(nil)

// Exporter monta e assina o RPS de uma fatura.
// Sem certificado configurado o XML sai sem assinatura (homologação).
type Exporter struct {
	builder *XMLBuilder
	signer  *Signer
	cert    *tls.Certificate
}

// NewExporter cria o exportador a partir da configuração de NFS-e.
func NewExporter(cfg config.NFSeConfig) (*Exporter, error) {
	e := &Exporter{
		builder: NewXMLBuilder(cfg.CodigoMunicipio),
		signer:  NewSigner(),
	}
	if cfg.CertPath != "" {
		cert, err := LoadCertificate(cfg.CertPath, cfg.CertKeyPath)
		if err != nil {
			return nil, err
		}
		e.cert = &cert
	}
	return e, nil
}

// Export implementa billing.RPSExporter.
func (e *Exporter) Export(inv *entity.Invoice, lines []*entity.InvoiceLineItem, office *entity.Office, client *entity.Client, aliquota decimal.Decimal) ([]byte, error) {
	ctx := &BuildContext{
		Invoice:  inv,
		Lines:    lines,
		Office:   office,
		Client:   client,
		Aliquota: aliquota,
	}
	xmlBytes, err := e.builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	if e.cert == nil {
		return xmlBytes, nil
	}
	return e.signer.Sign(xmlBytes, *e.cert, infID(inv))
}
