package nfse

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

func buildContextFixture() *BuildContext {
	return &BuildContext{
		Invoice: &entity.Invoice{
			ID:         "inv-1",
			Number:     "FAT-1718000000",
			OfficeID:   "office-1",
			ClientID:   "client-1",
			IssueDate:  time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			GrandTotal: decimal.NewFromFloat(7275.50),
		},
		Lines: []*entity.InvoiceLineItem{
			{Description: "Honorários contratuais", TotalAmount: decimal.NewFromInt(5000)},
			{Description: "Horas profissionais de 2024-03-01 a 2024-03-31", TotalAmount: decimal.NewFromFloat(2275.50)},
		},
		Office: &entity.Office{
			ID:                 "office-1",
			Name:               "Barros e Lima Advogados",
			CNPJ:               "12.345.678/0001-90",
			InscricaoMunicipal: "87654",
			CodigoMunicipio:    "3550308",
		},
		Client: &entity.Client{
			ID:       "client-1",
			Name:     "Construtora Horizonte",
			Document: "98.765.432/0001-10",
		},
		Aliquota: decimal.NewFromInt(5),
	}
}

func TestBuild_EstruturaABRASF(t *testing.T) {
	b := NewXMLBuilder("")
	out, err := b.Build(buildContextFixture())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "GerarNfseEnvio", root.Tag)
	assert.Equal(t, NsABRASF, root.SelectAttrValue("xmlns", ""))

	inf := doc.FindElement("//InfDeclaracaoPrestacaoServico")
	require.NotNil(t, inf)
	assert.Equal(t, "rps-inv-1", inf.SelectAttrValue("Id", ""))

	assert.Equal(t, "1718000000", doc.FindElement("//IdentificacaoRps/Numero").Text())
	assert.Equal(t, "2024-03-31", doc.FindElement("//Competencia").Text())
	assert.Equal(t, "7275.50", doc.FindElement("//Valores/ValorServicos").Text())
	assert.Equal(t, "5.00", doc.FindElement("//Valores/Aliquota").Text())
	assert.Equal(t, ItemListaAdvocacia, doc.FindElement("//ItemListaServico").Text())
	assert.Equal(t, "3550308", doc.FindElement("//Servico/CodigoMunicipio").Text())
	assert.Equal(t, "12345678000190", doc.FindElement("//Prestador/CpfCnpj/Cnpj").Text())
	assert.Equal(t, "98765432000110", doc.FindElement("//Tomador/IdentificacaoTomador/CpfCnpj/Cnpj").Text())
	assert.Equal(t, "Construtora Horizonte", doc.FindElement("//Tomador/RazaoSocial").Text())
}

func TestBuild_DiscriminacaoConcatenaLinhas(t *testing.T) {
	b := NewXMLBuilder("")
	out, err := b.Build(buildContextFixture())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	disc := doc.FindElement("//Discriminacao").Text()
	assert.Contains(t, disc, "Honorários contratuais: R$ 5000.00")
	assert.Contains(t, disc, " | ")
}

func TestBuild_AliquotaZeroOmitida(t *testing.T) {
	ctx := buildContextFixture()
	ctx.Aliquota = decimal.Zero
	out, err := NewXMLBuilder("").Build(ctx)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Nil(t, doc.FindElement("//Valores/Aliquota"))
}

func TestBuild_MunicipioDaConfiguracaoComoFallback(t *testing.T) {
	ctx := buildContextFixture()
	ctx.Office.CodigoMunicipio = ""

	out, err := NewXMLBuilder("4106902").Build(ctx)
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "4106902", doc.FindElement("//Servico/CodigoMunicipio").Text())

	ctx.Office.CodigoMunicipio = ""
	_, err = NewXMLBuilder("").Build(ctx)
	assert.Error(t, err, "sem código de município não há RPS válido")
}

func TestBuild_TomadorPessoaFisica(t *testing.T) {
	ctx := buildContextFixture()
	ctx.Client.Document = "123.456.789-09"

	out, err := NewXMLBuilder("").Build(ctx)
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "12345678909", doc.FindElement("//Tomador/IdentificacaoTomador/CpfCnpj/Cpf").Text())
	assert.Nil(t, doc.FindElement("//Tomador/IdentificacaoTomador/CpfCnpj/Cnpj"))
}
