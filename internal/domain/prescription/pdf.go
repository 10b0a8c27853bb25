package prescription

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/cliniva/cliniva/internal/domain/doctor"
)

// RenderPDF writes a printable A4 rendition of the prescription. The
// signature image is embedded when signatureFile points at a readable file;
// otherwise the signature block falls back to a plain line.
func RenderPDF(w io.Writer, p *Prescription, d *doctor.Doctor, signatureFile string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Clinic header.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, d.ClinicName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if d.ClinicAddress != "" {
		pdf.CellFormat(0, 5, d.ClinicAddress, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("%s, %s", d.Name, d.Specialization), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("License No: %s  |  Phone: %s", d.LicenseNumber, d.Phone), "", 1, "C", false, 0, "")
	pdf.Ln(3)
	pdf.SetDrawColor(100, 100, 100)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(5)

	// Prescription and patient details.
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, "Prescription No: "+p.PrescriptionID, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+p.CreatedAt.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 6, "Patient: "+p.PatientName, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Age: %d", p.PatientAge), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	section := func(title, body string) {
		if body == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, body, "", "L", false)
		pdf.Ln(2)
	}

	section("Symptoms", p.Symptoms)
	section("Rx", p.Prescription)
	section("Notes", p.Notes)

	if p.NextFollowUp != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 7, "Next follow-up: "+p.NextFollowUp.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	}

	// Signature block, bottom right.
	pdf.SetY(-55)
	if signatureFile != "" {
		if _, err := os.Stat(signatureFile); err == nil {
			opts := gofpdf.ImageOptions{ImageType: imageType(signatureFile), ReadDpi: true}
			pdf.ImageOptions(signatureFile, 145, pdf.GetY(), 40, 15, false, opts, 0, "")
			pdf.Ln(16)
		}
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, d.Name, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, "Signature", "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render prescription pdf: %w", err)
	}
	return nil
}

func imageType(path string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".png"):
		return "PNG"
	case strings.HasSuffix(strings.ToLower(path), ".gif"):
		return "GIF"
	default:
		return "JPG"
	}
}
