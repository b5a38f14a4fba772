package utils

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/meinhoongagan/clinic-app/models"
)

// DiagnosisPDF renders a printable diagnosis report.
func DiagnosisPDF(diag *models.Diagnosis) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(95, 111, 255)
	pdf.CellFormat(0, 10, "Prescripto - Diagnosis Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Consultation", "1", 1, "C", false, 0, "")
	addDetail(pdf, "Report ID", fmt.Sprintf("%d", diag.ID), true)
	addDetail(pdf, "Doctor", tr(diag.Doctor.Name), true)
	addDetail(pdf, "Specialty", tr(diag.Doctor.Specialty), false)
	addDetail(pdf, "Patient", tr(diag.User.Name), true)
	addDetail(pdf, "Date", diag.DiagnosisDate.Format("2006-01-02"), false)
	addDetail(pdf, "Diagnosis", tr(diag.DiagnosisTitle), true)
	if diag.Description != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(diag.Description), "1", "L", false)
	}

	if len(diag.Medications) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, "Medications", "1", 1, "C", false, 0, "")
		for _, med := range diag.Medications {
			value := fmt.Sprintf("%s, %s", med.Dosage, med.Duration)
			if med.Notes != "" {
				value += " (" + med.Notes + ")"
			}
			addDetail(pdf, tr(med.MedicationName), tr(value), false)
		}
	}

	if len(diag.FutureCheckups) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, "Follow-up checkups", "1", 1, "C", false, 0, "")
		for _, checkup := range diag.FutureCheckups {
			value := checkup.Purpose
			if checkup.Notes != "" {
				value += " (" + checkup.Notes + ")"
			}
			addDetail(pdf, checkup.CheckupDate, tr(value), false)
		}
	}

	pdf.SetY(pdf.GetY() + 12)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 10, "This is a computer generated report", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addDetail(pdf *gofpdf.Fpdf, label, value string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 11)
	} else {
		pdf.SetFont("Arial", "", 10)
	}
	pdf.CellFormat(50, 10, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}
