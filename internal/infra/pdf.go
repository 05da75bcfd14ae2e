package infra

// pdf.go — ticket PDF generation with go-pdf/fpdf. A7-ish thermal receipt
// layout: pharmacy header, numero de venta and timestamp, line table,
// IGV breakdown and bold total. Output goes to storagePath/ticket_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarTicketPDF writes the printable receipt of a completed sale and
// returns the absolute path of the generated file.
func GenerarTicketPDF(venta *model.Venta, nombreFarmacia, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	if nombreFarmacia == "" {
		nombreFarmacia = "Farmacia"
	}
	fileName := fmt.Sprintf("ticket_%s.pdf", venta.NumeroVenta)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, nombreFarmacia, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de Venta", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Venta %s", venta.NumeroVenta), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range venta.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.NombreComercial
		}
		if len(nombre) > 24 {
			nombre = nombre[:24]
		}
		pdf.CellFormat(col1, 4, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4, fmt.Sprintf("%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 4, d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Subtotal", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, venta.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2, 4, "IGV", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, venta.IGV.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, venta.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	if venta.MetodoPago != nil {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW, 4, fmt.Sprintf("Pago: %s", *venta.MetodoPago), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 6)
	pdf.CellFormat(contentW, 4, "Gracias por su compra", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
