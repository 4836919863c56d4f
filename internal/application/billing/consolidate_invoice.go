// Package billing consolida lançamentos aprovados e itens avulsos em faturas.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	domainbilling "github.com/victorbarbieri91/zyra-billing/internal/domain/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/tax"
	"github.com/victorbarbieri91/zyra-billing/pkg/logger"
	"github.com/victorbarbieri91/zyra-billing/pkg/moeda"
)

// Consolidator caso de uso de consolidação de faturas.
// Tarifas e configuração tributária são lidas frescas a cada construção:
// o valor faturado reflete as tarifas vigentes do contrato, não um snapshot
// da criação do lançamento (aditivos têm fronteira explícita em Version).
type Consolidator struct {
	txRunner  TxRunner
	invoices  repository.InvoiceRepository
	clients   repository.ClientRepository
	contracts repository.ContractRepository
	rates     repository.RoleRateRepository
	taxCfg    repository.TaxConfigRepository
	log       *logger.Logger
}

// NewConsolidator constrói o caso de uso.
func NewConsolidator(
	txRunner TxRunner,
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	contracts repository.ContractRepository,
	rates repository.RoleRateRepository,
	taxCfg repository.TaxConfigRepository,
	log *logger.Logger,
) *Consolidator {
	return &Consolidator{
		txRunner:  txRunner,
		invoices:  invoices,
		clients:   clients,
		contracts: contracts,
		rates:     rates,
		taxCfg:    taxCfg,
		log:       log.Modulo("faturamento"),
	}
}

// BuildInvoice consolida a fatura de um cliente no período:
// seleciona lançamentos aprovados faturáveis não faturados, valora as horas
// pelo contrato vigente, agrega em uma única linha de horas, acrescenta
// honorários automáticos (fixo/mensalidade) e itens avulsos, e marca os
// lançamentos consumidos — tudo em uma transação.
func (c *Consolidator) BuildInvoice(ctx context.Context, officeID, actorID string, in dto.BuildInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" || in.PeriodTo.Before(in.PeriodFrom) {
		return nil, domain.ErrValidation
	}
	for _, item := range in.ExtraItems {
		if err := validateExtraItem(item); err != nil {
			return nil, err
		}
	}

	client, err := c.clients.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if client.OfficeID != officeID {
		return nil, domain.ErrForbidden
	}

	rateTable, err := c.rates.TableByOffice(officeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		Number:       fmt.Sprintf("FAT-%d", now.Unix()),
		OfficeID:     officeID,
		ClientID:     in.ClientID,
		IssueDate:    now,
		DueDate:      in.DueDate,
		PeriodFrom:   in.PeriodFrom,
		PeriodTo:     in.PeriodTo,
		Observations: in.Observations,
		CreatedAt:    now,
	}
	var lines []*entity.InvoiceLineItem

	err = c.txRunner.RunBilling(ctx, func(
		entries repository.TimesheetRepository,
		invoices repository.InvoiceRepository,
	) error {
		// 1) Seleção com lock das linhas candidatas (aprovado, faturável, não faturado).
		selected, err := entries.SelectBillable(officeID, in.ClientID, in.PeriodFrom, in.PeriodTo)
		if err != nil {
			return err
		}

		// 2) Valoração das horas pelo contrato vigente e agregação em linha única.
		hoursTotal := decimal.Zero
		hoursAmount := decimal.Zero
		var consumed []string
		for _, e := range selected {
			if !e.Hours.GreaterThan(decimal.Zero) {
				continue // defensivo; create/edit já impedem horas zeradas
			}
			amount, err := c.entryAmount(e, rateTable)
			if err != nil {
				return err
			}
			hoursTotal = hoursTotal.Add(e.Hours)
			hoursAmount = hoursAmount.Add(amount)
			consumed = append(consumed, e.ID)
		}
		if len(consumed) > 0 {
			lines = append(lines, &entity.InvoiceLineItem{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				SourceType:  entity.SourceTimesheetAggregate,
				Description: fmt.Sprintf("Horas profissionais de %s a %s", dto.FormatDate(in.PeriodFrom), dto.FormatDate(in.PeriodTo)),
				Quantity:    hoursTotal,
				TotalAmount: hoursAmount,
			})
		}

		// 3) Honorários automáticos dos contratos do cliente (fixo e mensalidade).
		// A consulta de períodos já cobrados usa o repositório da transação,
		// então um refaturamento do mesmo ciclo não duplica as linhas.
		autoLines, err := c.contractFeeLines(invoices, inv.ID, officeID, in.ClientID, in.PeriodFrom, in.PeriodTo, rateTable)
		if err != nil {
			return err
		}
		lines = append(lines, autoLines...)

		// 4) Itens avulsos entram como linhas individuais, sem modificação.
		for _, item := range in.ExtraItems {
			matterTitle := ""
			if item.MatterID != "" {
				if m, err := c.clients.GetMatter(item.MatterID); err == nil && m != nil {
					matterTitle = m.Title
				}
			}
			lines = append(lines, &entity.InvoiceLineItem{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				SourceType:  item.SourceType,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitAmount:  item.UnitAmount,
				TotalAmount: item.TotalAmount,
				MatterTitle: matterTitle,
			})
		}

		if len(lines) == 0 {
			return domain.ErrEmptyInvoice
		}

		// 5) Totais por categoria; o total geral é a soma dos três subtotais.
		for _, ln := range lines {
			switch ln.SourceType {
			case entity.SourceTimesheetAggregate:
				inv.SubtotalHours = inv.SubtotalHours.Add(ln.TotalAmount)
			case entity.SourceExpense:
				inv.SubtotalExpenses = inv.SubtotalExpenses.Add(ln.TotalAmount)
			default:
				// honorários contratuais, avulsos e atos processuais
				inv.SubtotalFees = inv.SubtotalFees.Add(ln.TotalAmount)
			}
		}
		inv.GrandTotal = inv.SubtotalFees.Add(inv.SubtotalHours).Add(inv.SubtotalExpenses)
		inv.HoursTotal = hoursTotal

		// 6) Persistência e marcação dos lançamentos consumidos, na mesma transação.
		if err := invoices.Create(inv); err != nil {
			return err
		}
		for _, ln := range lines {
			if err := invoices.CreateLine(ln); err != nil {
				return err
			}
		}
		if len(consumed) > 0 {
			if err := entries.MarkBilled(consumed, inv.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Str("invoice_id", inv.ID).
		Str("cliente", in.ClientID).
		Str("total", inv.GrandTotal.StringFixed(2)).
		Msg("fatura consolidada")

	return c.toInvoiceResponse(inv, client.Name, lines), nil
}

// GetInvoice devolve a fatura com linhas e anotação de retenções.
func (c *Consolidator) GetInvoice(ctx context.Context, officeID, id string) (*dto.InvoiceResponse, error) {
	inv, err := c.ownedInvoice(officeID, id)
	if err != nil {
		return nil, err
	}
	lines, err := c.invoices.GetLines(id)
	if err != nil {
		return nil, err
	}
	clientName := ""
	if client, err := c.clients.GetByID(inv.ClientID); err == nil && client != nil {
		clientName = client.Name
	}
	return c.toInvoiceResponse(inv, clientName, lines), nil
}

// Annex devolve o anexo de horas: detalhe dos lançamentos consumidos,
// ordenado por data de trabalho (empate por id). Derivado na leitura,
// nunca persistido como linhas próprias.
func (c *Consolidator) Annex(ctx context.Context, officeID, invoiceID string) (*dto.AnnexResponse, error) {
	inv, err := c.ownedInvoice(officeID, invoiceID)
	if err != nil {
		return nil, err
	}
	entries, err := c.invoices.ListBilledEntries(invoiceID)
	if err != nil {
		return nil, err
	}
	out := &dto.AnnexResponse{
		InvoiceID:  inv.ID,
		Number:     inv.Number,
		HoursTotal: inv.HoursTotal,
		Rows:       make([]dto.AnnexRow, 0, len(entries)),
	}
	for _, e := range entries {
		out.Rows = append(out.Rows, dto.AnnexRow{
			EntryID:      e.ID,
			WorkDate:     dto.FormatDate(e.WorkDate),
			AuthorUserID: e.AuthorUserID,
			Activity:     e.Activity,
			Hours:        e.Hours,
			HoursLabel:   moeda.FormatHoras(e.Hours),
		})
	}
	return out, nil
}

// entryAmount valora um lançamento pelo contrato da pasta/consulta vinculada.
// Lançamento sem contrato (faturável por override manual) entra com valor zero.
func (c *Consolidator) entryAmount(e *entity.TimesheetEntry, rates domainbilling.RoleRateTable) (decimal.Decimal, error) {
	contractID := ""
	switch {
	case e.MatterID != "":
		m, err := c.clients.GetMatter(e.MatterID)
		if err != nil {
			return decimal.Zero, err
		}
		if m != nil {
			contractID = m.ContractID
		}
	case e.ConsultationID != "":
		cons, err := c.clients.GetConsultation(e.ConsultationID)
		if err != nil {
			return decimal.Zero, err
		}
		if cons != nil {
			contractID = cons.ContractID
		}
	}
	if contractID == "" {
		return decimal.Zero, nil
	}
	contract, err := c.contracts.GetByID(contractID)
	if err != nil {
		return decimal.Zero, err
	}
	if contract == nil {
		return decimal.Zero, nil
	}
	res, err := domainbilling.Resolve(*contract, domainbilling.BillableInput{
		Kind:   domainbilling.KindHoras,
		Hours:  e.Hours,
		RoleID: e.RoleID,
	}, rates)
	if err != nil {
		return decimal.Zero, err
	}
	return res.Amount, nil
}

// contractFeeLines gera as linhas de honorários que independem de horas:
// honorário fixo (uma vez por ciclo) e mensalidade por pasta (uma vez por
// dia de cobrança dentro do período). Ciclos já cobrados em fatura anterior
// do contrato são pulados: refaturar o mesmo período não duplica honorários.
func (c *Consolidator) contractFeeLines(invoices repository.InvoiceRepository, invoiceID, officeID, clientID string, from, to time.Time, rates domainbilling.RoleRateTable) ([]*entity.InvoiceLineItem, error) {
	contracts, err := c.contracts.ListByClient(officeID, clientID)
	if err != nil {
		return nil, err
	}
	var lines []*entity.InvoiceLineItem
	one := decimal.NewFromInt(1)

	for _, ct := range contracts {
		charged, err := invoices.ListFeePeriods(ct.ID)
		if err != nil {
			return nil, err
		}

		// Honorário fixo do ciclo: nada a cobrar se o período cruza um ciclo
		// já coberto por fatura anterior deste contrato.
		fixo, err := domainbilling.Resolve(*ct, domainbilling.BillableInput{Kind: domainbilling.KindMarcoFixo}, rates)
		if err != nil && err != domain.ErrMissingRateConfig {
			return nil, err
		}
		if err == nil && fixo.BillableDefault && fixo.Amount.GreaterThan(decimal.Zero) && !anyOverlap(charged, from, to) {
			lines = append(lines, &entity.InvoiceLineItem{
				ID:          uuid.New().String(),
				InvoiceID:   invoiceID,
				SourceType:  entity.SourceFee,
				ContractID:  ct.ID,
				Description: "Honorários contratuais",
				Quantity:    one,
				UnitAmount:  &fixo.Amount,
				TotalAmount: fixo.Amount,
			})
		}

		// Mensalidade por pasta, uma ocorrência por dia de cobrança no período.
		// Dias de cobrança dentro de ciclos já faturados não contam de novo.
		occurrences := 0
		for _, chargeDate := range billingChargeDates(from, to, ct.BillingDayOfMonth) {
			if !anyCovers(charged, chargeDate) {
				occurrences++
			}
		}
		if occurrences == 0 {
			continue
		}
		mensal, err := domainbilling.Resolve(*ct, domainbilling.BillableInput{Kind: domainbilling.KindMensalidade}, rates)
		if err != nil || !mensal.BillableDefault || !mensal.Amount.GreaterThan(decimal.Zero) {
			continue
		}
		matters, err := c.clients.ListMattersByClient(officeID, clientID)
		if err != nil {
			return nil, err
		}
		for _, m := range matters {
			if m.ContractID != ct.ID {
				continue
			}
			qty := decimal.NewFromInt(int64(occurrences))
			total := mensal.Amount.Mul(qty)
			lines = append(lines, &entity.InvoiceLineItem{
				ID:          uuid.New().String(),
				InvoiceID:   invoiceID,
				SourceType:  entity.SourceFee,
				ContractID:  ct.ID,
				Description: fmt.Sprintf("Mensalidade — pasta %s", m.Pasta),
				Quantity:    qty,
				UnitAmount:  &mensal.Amount,
				TotalAmount: total,
				MatterTitle: m.Title,
			})
		}
	}
	return lines, nil
}

// billingChargeDates devolve as datas de cobrança (dia do mês) dentro de [from, to].
// Meses sem o dia (ex.: 31 em fevereiro) não geram cobrança.
func billingChargeDates(from, to time.Time, day int) []time.Time {
	if day < 1 || day > 31 {
		return nil
	}
	var dates []time.Time
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	for !cursor.After(to) {
		charge := time.Date(cursor.Year(), cursor.Month(), day, 0, 0, 0, 0, from.Location())
		if charge.Month() == cursor.Month() && !charge.Before(from) && !charge.After(to) {
			dates = append(dates, charge)
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return dates
}

func anyOverlap(periods []repository.BillingPeriod, from, to time.Time) bool {
	for _, p := range periods {
		if p.Overlaps(from, to) {
			return true
		}
	}
	return false
}

func anyCovers(periods []repository.BillingPeriod, d time.Time) bool {
	for _, p := range periods {
		if p.Covers(d) {
			return true
		}
	}
	return false
}

func (c *Consolidator) ownedInvoice(officeID, id string) (*entity.Invoice, error) {
	inv, err := c.invoices.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.OfficeID != officeID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func validateExtraItem(item dto.ExtraLineItem) error {
	switch item.SourceType {
	case entity.SourceFee, entity.SourceExpense, entity.SourceProceduralAct:
	default:
		return domain.ErrValidation
	}
	if item.Description == "" || item.TotalAmount.IsNegative() {
		return domain.ErrValidation
	}
	return nil
}

// toInvoiceResponse monta o DTO com a anotação de retenções do regime vigente.
// A anotação é informativa: falha na configuração tributária não invalida a fatura.
func (c *Consolidator) toInvoiceResponse(inv *entity.Invoice, clientName string, lines []*entity.InvoiceLineItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:               inv.ID,
		Number:           inv.Number,
		ClientID:         inv.ClientID,
		ClientName:       clientName,
		IssueDate:        dto.FormatDate(inv.IssueDate),
		DueDate:          dto.FormatDate(inv.DueDate),
		PeriodFrom:       dto.FormatDate(inv.PeriodFrom),
		PeriodTo:         dto.FormatDate(inv.PeriodTo),
		Observations:     inv.Observations,
		SubtotalFees:     inv.SubtotalFees,
		SubtotalHours:    inv.SubtotalHours,
		SubtotalExpenses: inv.SubtotalExpenses,
		GrandTotal:       inv.GrandTotal,
		GrandTotalBRL:    moeda.FormatBRL(inv.GrandTotal),
		HoursTotal:       inv.HoursTotal,
		Lines:            make([]dto.InvoiceLineResponse, 0, len(lines)),
	}
	for _, ln := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:          ln.ID,
			SourceType:  ln.SourceType,
			Description: ln.Description,
			Quantity:    ln.Quantity,
			UnitAmount:  ln.UnitAmount,
			TotalAmount: ln.TotalAmount,
			MatterTitle: ln.MatterTitle,
		})
	}

	cfg, err := c.taxCfg.GetByOffice(inv.OfficeID)
	if err != nil || cfg == nil {
		return resp
	}
	taxRes, err := tax.Compute(*cfg, inv.GrandTotal)
	if err != nil {
		c.log.Warn().Err(err).Str("office_id", inv.OfficeID).Msg("anotação de retenções indisponível")
		return resp
	}
	resp.EffectiveTaxRate = taxRes.EffectiveRate
	for _, w := range taxRes.Withholdings {
		resp.Withholdings = append(resp.Withholdings, dto.WithholdingResponse{
			Code:             w.Code,
			Amount:           w.Amount,
			Formatted:        moeda.FormatBRL(w.Amount),
			WithheldAtSource: w.WithheldAtSource,
		})
	}
	return resp
}
