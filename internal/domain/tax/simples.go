package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

// Bracket faixa da tabela do Simples Nacional (LC 123/2006, redação da LC 155/2016).
type Bracket struct {
	UpperBound  decimal.Decimal // teto de RBT12 da faixa, inclusivo
	NominalRate decimal.Decimal // alíquota nominal, percentual
	Deduction   decimal.Decimal // parcela a deduzir, em reais
}

func br(upper int64, rate string, deduction int64) Bracket {
	return Bracket{
		UpperBound:  decimal.NewFromInt(upper),
		NominalRate: decimal.RequireFromString(rate),
		Deduction:   decimal.NewFromInt(deduction),
	}
}

// Tabelas dos anexos de serviços. Seis faixas cada; valores estatutários fixos.
var (
	anexoIII = []Bracket{
		br(180_000, "6", 0),
		br(360_000, "11.2", 9_360),
		br(720_000, "13.5", 17_640),
		br(1_800_000, "16", 35_640),
		br(3_600_000, "21", 125_640),
		br(4_800_000, "33", 648_000),
	}
	// Anexo IV: serviços advocatícios. A CPP é recolhida fora do DAS.
	anexoIV = []Bracket{
		br(180_000, "4.5", 0),
		br(360_000, "9", 8_100),
		br(720_000, "10.2", 12_420),
		br(1_800_000, "14", 39_780),
		br(3_600_000, "22", 183_780),
		br(4_800_000, "33", 828_000),
	}
	anexoV = []Bracket{
		br(180_000, "15.5", 0),
		br(360_000, "18", 4_500),
		br(720_000, "19.5", 9_900),
		br(1_800_000, "20.5", 17_100),
		br(3_600_000, "23", 62_100),
		br(4_800_000, "30.5", 540_000),
	}
)

// TableForAnexo devolve a tabela de faixas do anexo de serviços informado.
func TableForAnexo(anexo string) ([]Bracket, error) {
	switch anexo {
	case entity.AnexoIII:
		return anexoIII, nil
	case entity.AnexoIV:
		return anexoIV, nil
	case entity.AnexoV:
		return anexoV, nil
	default:
		return nil, fmt.Errorf("anexo do Simples desconhecido: %q", anexo)
	}
}

// lookupBracket devolve a menor faixa cujo teto comporta rbt12 (teto inclusivo).
// Acima do teto da última faixa devolve a última com outOfRange=true.
func lookupBracket(table []Bracket, rbt12 decimal.Decimal) (index int, b Bracket, outOfRange bool) {
	for i, row := range table {
		if rbt12.LessThanOrEqual(row.UpperBound) {
			return i + 1, row, false
		}
	}
	last := len(table) - 1
	return last + 1, table[last], true
}
