// Package nfse gera e assina o RPS (Recibo Provisório de Serviços) de uma
// fatura no layout ABRASF 2.02, para envio posterior à prefeitura.
package nfse

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

// Namespace do modelo nacional ABRASF.
const (
	NsABRASF = "http://www.abrasf.org.br/nfse.xsd"
	// Item da lista de serviços da LC 116/03 para serviços advocatícios.
	ItemListaAdvocacia = "17.14"
	// Tipo de RPS: 1 = RPS comum.
	TipoRPS = "1"
)

// BuildContext dados necessários para montar o RPS de uma fatura.
type BuildContext struct {
	Invoice  *entity.Invoice
	Lines    []*entity.InvoiceLineItem
	Office   *entity.Office
	Client   *entity.Client
	Aliquota decimal.Decimal // alíquota de ISS aplicável (percentual)
	Serie    string
}

// XMLBuilder monta o XML GerarNfseEnvio (RPS) no layout ABRASF 2.02.
type XMLBuilder struct {
	codigoMunicipio string // fallback quando o escritório não tem código próprio
}

// NewXMLBuilder cria o builder. codigoMunicipio vem da configuração da aplicação.
func NewXMLBuilder(codigoMunicipio string) *XMLBuilder {
	return &XMLBuilder{codigoMunicipio: codigoMunicipio}
}

// Build gera o []byte do documento GerarNfseEnvio, sem assinatura.
// O elemento InfDeclaracaoPrestacaoServico recebe Id para a Reference da assinatura.
func (b *XMLBuilder) Build(ctx *BuildContext) ([]byte, error) {
	if ctx == nil || ctx.Invoice == nil || ctx.Office == nil || ctx.Client == nil {
		return nil, fmt.Errorf("nfse: faltam invoice, office ou client no contexto")
	}
	municipio := ctx.Office.CodigoMunicipio
	if municipio == "" {
		municipio = b.codigoMunicipio
	}
	if municipio == "" {
		return nil, fmt.Errorf("nfse: código do município não configurado")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	envio := doc.CreateElement("GerarNfseEnvio")
	envio.CreateAttr("xmlns", NsABRASF)

	rps := envio.CreateElement("Rps")
	inf := rps.CreateElement("InfDeclaracaoPrestacaoServico")
	inf.CreateAttr("Id", infID(ctx.Invoice))

	ident := inf.CreateElement("Rps").CreateElement("IdentificacaoRps")
	ident.CreateElement("Numero").SetText(rpsNumero(ctx.Invoice.Number))
	serie := ctx.Serie
	if serie == "" {
		serie = "UNICA"
	}
	ident.CreateElement("Serie").SetText(serie)
	ident.CreateElement("Tipo").SetText(TipoRPS)

	inf.CreateElement("Competencia").SetText(ctx.Invoice.IssueDate.Format("2006-01-02"))

	servico := inf.CreateElement("Servico")
	valores := servico.CreateElement("Valores")
	valores.CreateElement("ValorServicos").SetText(ctx.Invoice.GrandTotal.StringFixed(2))
	if ctx.Aliquota.GreaterThan(decimal.Zero) {
		valores.CreateElement("Aliquota").SetText(ctx.Aliquota.StringFixed(2))
	}
	servico.CreateElement("IssRetido").SetText("2") // 2 = não retido
	servico.CreateElement("ItemListaServico").SetText(ItemListaAdvocacia)
	servico.CreateElement("Discriminacao").SetText(discriminacao(ctx.Lines))
	servico.CreateElement("CodigoMunicipio").SetText(municipio)

	prestador := inf.CreateElement("Prestador")
	prestador.CreateElement("CpfCnpj").CreateElement("Cnpj").SetText(digitsOnly(ctx.Office.CNPJ))
	if ctx.Office.InscricaoMunicipal != "" {
		prestador.CreateElement("InscricaoMunicipal").SetText(ctx.Office.InscricaoMunicipal)
	}

	tomador := inf.CreateElement("Tomador")
	docTomador := digitsOnly(ctx.Client.Document)
	if docTomador != "" {
		cpfCnpj := tomador.CreateElement("IdentificacaoTomador").CreateElement("CpfCnpj")
		if len(docTomador) == 14 {
			cpfCnpj.CreateElement("Cnpj").SetText(docTomador)
		} else {
			cpfCnpj.CreateElement("Cpf").SetText(docTomador)
		}
	}
	tomador.CreateElement("RazaoSocial").SetText(ctx.Client.Name)

	doc.Indent(2)
	return doc.WriteToBytes()
}

// infID identificador do elemento assinável, referenciado pela assinatura (URI="#...").
func infID(inv *entity.Invoice) string {
	return "rps-" + inv.ID
}

// rpsNumero extrai a parte numérica do número da fatura (FAT-1718000000 -> 1718000000).
func rpsNumero(number string) string {
	if idx := strings.LastIndex(number, "-"); idx >= 0 {
		return number[idx+1:]
	}
	return number
}

// discriminacao concatena as descrições das linhas, exigência do layout ABRASF
// (campo texto único).
func discriminacao(lines []*entity.InvoiceLineItem) string {
	if len(lines) == 0 {
		return "Serviços advocatícios"
	}
	parts := make([]string, 0, len(lines))
	for _, ln := range lines {
		parts = append(parts, fmt.Sprintf("%s: R$ %s", ln.Description, ln.TotalAmount.StringFixed(2)))
	}
	return strings.Join(parts, " | ")
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
