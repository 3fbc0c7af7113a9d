package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/liquidacion-api/internal/application/dto"
)

// Hojas del libro exportado.
const (
	SheetLines   = "정산"
	SheetClients = "거래처"
)

// ContentType MIME de .xlsx.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	lineHeaders = []string{
		"직원", "역할", "시작일", "종료일", "작업 수", "주작업 수",
		"매출", "부품비", "수수료", "회사부담 수수료", "지급액",
	}
	clientHeaders = []string{"거래처", "건수", "매출", "비중(%)"}
)

// SettlementExporter genera el libro .xlsx de una liquidación a partir de su DTO.
type SettlementExporter struct{}

// NewSettlementExporter construye el exportador.
func NewSettlementExporter() *SettlementExporter {
	return &SettlementExporter{}
}

// FileName nombre sugerido para el adjunto.
func (e *SettlementExporter) FileName(rep dto.SettlementReportDTO) string {
	return fmt.Sprintf("settlement_%s_%s.xlsx", rep.PeriodStart, rep.PeriodEnd)
}

// Export escribe dos hojas: líneas por empleado (con fila de totales) y resumen por cliente.
func (e *SettlementExporter) Export(rep dto.SettlementReportDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetLines); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(SheetClients); err != nil {
		return nil, fmt.Errorf("crear hoja %s: %w", SheetClients, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("estilo de encabezado: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, fmt.Errorf("estilo de montos: %w", err)
	}

	// ── Hoja de líneas ──
	if err := writeRow(f, SheetLines, 1, toRow(lineHeaders)); err != nil {
		return nil, err
	}
	row := 2
	for _, l := range rep.PerEmployee {
		err := writeRow(f, SheetLines, row, []any{
			l.EmployeeName, l.Role, l.PeriodStart, l.PeriodEnd, l.TaskCount, l.LeadTaskCount,
			l.ApportionedRevenue, l.ApportionedPartCost, l.ApportionedFee, l.AbsorbedFee, l.PayableAmount,
		})
		if err != nil {
			return nil, err
		}
		row++
	}
	totals := []any{"합계", "", rep.PeriodStart, rep.PeriodEnd, rep.Totals.WorkOrders, "",
		rep.Totals.Revenue, rep.Totals.PartCost, rep.Totals.Fee, "", rep.Totals.Payable}
	if err := writeRow(f, SheetLines, row, totals); err != nil {
		return nil, err
	}
	if err := styleRange(f, SheetLines, 1, 1, len(lineHeaders), 1, headerStyle); err != nil {
		return nil, err
	}
	if err := styleRange(f, SheetLines, 7, 2, len(lineHeaders), row, moneyStyle); err != nil {
		return nil, err
	}

	// ── Hoja de clientes ──
	if err := writeRow(f, SheetClients, 1, toRow(clientHeaders)); err != nil {
		return nil, err
	}
	for i, c := range rep.PerClient {
		if err := writeRow(f, SheetClients, i+2, []any{c.Client, c.Count, c.Revenue, c.RevenueShare}); err != nil {
			return nil, err
		}
	}
	if err := styleRange(f, SheetClients, 1, 1, len(clientHeaders), 1, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func toRow(headers []string) []any {
	out := make([]any, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("hoja %s fila %d: %w", sheet, row, err)
	}
	return nil
}

func styleRange(f *excelize.File, sheet string, col1, row1, col2, row2, style int) error {
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}
