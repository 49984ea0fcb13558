// Package pdfreport renders stored symptom-analysis records as PDF documents
// for download and offline sharing.
package pdfreport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"medichat/internal/model"
)

// Render produces a single-page report for one prediction. ownerName may be
// empty when the owning account has no display name.
func Render(prediction *model.Prediction, ownerName string) ([]byte, error) {
	if prediction == nil {
		return nil, fmt.Errorf("render pdf failed: prediction is nil")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Symptom Analysis Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Symptom Analysis Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report #%d", prediction.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+prediction.CreatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	if ownerName != "" {
		pdf.CellFormat(0, 6, "Patient: "+ownerName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	writeSection(pdf, "Reported Symptoms", prediction.Symptoms)
	if len(prediction.Diseases) > 0 {
		writeSection(pdf, "Predicted Condition", strings.Join(prediction.Diseases, ", "))
	}
	writeSection(pdf, "Assessment", stripMarkdown(prediction.Response))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf failed: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *gofpdf.Fpdf, title, body string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, body, "", "L", false)
	pdf.Ln(3)
}

// stripMarkdown drops the chat formatting markers; the core fonts also have
// no glyph for the warning-sign emoji.
func stripMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "⚠️ ", "")
	text = strings.ReplaceAll(text, "• ", "- ")
	return text
}
