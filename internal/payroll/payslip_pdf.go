package payroll

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// buildPayslipPDF renders a minimal single-page payslip. Plain PDF 1.4 by
// hand: one font, one content stream, no compression.
func buildPayslipPDF(employeeName string, result PayrollResult, breakdown Breakdown) ([]byte, error) {
	lines := []string{
		"PAYSLIP",
		fmt.Sprintf("Employee: %s", employeeName),
		fmt.Sprintf("Period: %04d-%02d", result.Year, result.Month),
		"",
		fmt.Sprintf("Base salary: %s", result.BaseSalary.StringFixed(2)),
		fmt.Sprintf("Days present: %d of %d required", breakdown.DaysPresent, breakdown.RequiredDays),
		fmt.Sprintf("Total hours: %s (overtime %s)", breakdown.TotalHours.StringFixed(2), breakdown.OvertimeHours.StringFixed(2)),
		"",
		fmt.Sprintf("Base pay: %s", result.BasePay.StringFixed(2)),
		fmt.Sprintf("Overtime pay: %s", result.OvertimePay.StringFixed(2)),
		fmt.Sprintf("Allowances: %s", result.Allowances.StringFixed(2)),
		fmt.Sprintf("Gross pay: %s", result.GrossPay.StringFixed(2)),
	}

	if len(breakdown.Bonuses) > 0 {
		lines = append(lines, "", "Bonuses:")
		for _, line := range breakdown.Bonuses {
			lines = append(lines, fmt.Sprintf("  + %s: %s", line.Label, line.Amount.StringFixed(2)))
		}
	}
	if len(breakdown.Deductions) > 0 {
		lines = append(lines, "", "Deductions:")
		for _, line := range breakdown.Deductions {
			lines = append(lines, fmt.Sprintf("  - %s: %s", line.Label, line.Amount.StringFixed(2)))
		}
	}

	lines = append(lines, "", fmt.Sprintf("NET PAY: %s", result.NetPay.StringFixed(2)))
	if result.PaidAt != nil {
		lines = append(lines, fmt.Sprintf("Paid at: %s", result.PaidAt.Format(time.RFC3339)))
	}

	return renderPDF(lines)
}

func renderPDF(lines []string) ([]byte, error) {
	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
