package infra

// Thermal-receipt style documents rendered with go-pdf/fpdf: the sale ticket
// handed to the customer and the kitchen comanda for a closed pedido. Both are
// rendered in memory and streamed by the handlers.

import (
	"bytes"
	"fmt"

	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	anchoTicket   = 74.0
	margenTicket  = 4.0
	largoNombre   = 22
	alturaMinima  = 105.0
	alturaPorItem = 5.0
)

type lineaImpresa struct {
	nombre   string
	cantidad int
	importe  decimal.Decimal
}

func nuevoTicket(lineas int) (*fpdf.Fpdf, func(string) string, float64) {
	alto := alturaMinima + float64(lineas)*alturaPorItem
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: anchoTicket, Ht: alto},
	})
	pdf.SetMargins(margenTicket, margenTicket, margenTicket)
	pdf.SetAutoPageBreak(false, margenTicket)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return pdf, tr, anchoTicket - 2*margenTicket
}

func separador(pdf *fpdf.Fpdf) {
	pdf.Ln(2)
	pdf.Line(margenTicket, pdf.GetY(), anchoTicket-margenTicket, pdf.GetY())
	pdf.Ln(2)
}

func truncar(s string) string {
	r := []rune(s)
	if len(r) > largoNombre {
		return string(r[:largoNombre-1]) + "."
	}
	return s
}

func imprimirLineas(pdf *fpdf.Fpdf, tr func(string) string, ancho float64, titulo string, lineas []lineaImpresa) {
	col1 := ancho * 0.52
	col2 := ancho * 0.16
	col3 := ancho * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, tr(titulo), "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, l := range lineas {
		pdf.CellFormat(col1, 5, tr(truncar(l.nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", l.cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+l.importe.StringFixed(2), "", 1, "R", false, 0, "")
	}
}

func nombreProducto(p *model.Producto) string {
	if p == nil {
		return ""
	}
	return p.Nombre
}

func salida(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerarTicketVenta renders the customer ticket of a sale.
func GenerarTicketVenta(venta *model.Venta, nombreLocal string) ([]byte, error) {
	pdf, tr, ancho := nuevoTicket(len(venta.Lineas))

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(ancho, 7, tr(nombreLocal), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(ancho, 5, "Comprobante de Venta", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(ancho, 5, tr("Venta N° "+venta.NumeroTexto()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(ancho, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if venta.EstaAnulada() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(ancho, 5, "ANULADA", "", 1, "C", false, 0, "")
	}
	separador(pdf)

	lineas := make([]lineaImpresa, 0, len(venta.Lineas))
	for _, l := range venta.Lineas {
		lineas = append(lineas, lineaImpresa{nombreProducto(l.Producto), l.Cantidad, l.Total})
	}
	imprimirLineas(pdf, tr, ancho, "Subtotal", lineas)
	separador(pdf)

	etiqueta := ancho * 0.68
	importe := ancho * 0.32
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(etiqueta, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(importe, 6, "$"+venta.Total.StringFixed(2), "", 1, "R", false, 0, "")
	if venta.PagaCon != nil {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(etiqueta, 4, "Paga con:", "", 0, "L", false, 0, "")
		pdf.CellFormat(importe, 4, "$"+venta.PagaCon.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.CellFormat(etiqueta, 4, "Vuelto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(importe, 4, "$"+venta.Vuelto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(ancho, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	return salida(pdf)
}

// GenerarComanda renders the kitchen slip of a pedido.
func GenerarComanda(pedido *model.Pedido, nombreLocal string) ([]byte, error) {
	pdf, tr, ancho := nuevoTicket(len(pedido.Lineas) + 3)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(ancho, 7, tr(nombreLocal), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(ancho, 5, "Comanda", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(ancho, 5, tr("Pedido N° "+pedido.NumeroTexto()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(ancho, 4, pedido.Fecha.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(ancho, 4, tr("Estado: "+pedido.Estado.Legible()), "", 1, "L", false, 0, "")
	if pedido.Usuario != nil {
		pdf.CellFormat(ancho, 4, tr("Cliente: "+pedido.Usuario.NombreCompleto()), "", 1, "L", false, 0, "")
	}
	if pedido.Delivery {
		pdf.MultiCell(ancho, 4, tr("Delivery: "+pedido.Direccion), "", "L", false)
	} else {
		pdf.CellFormat(ancho, 4, "Retira en el local", "", 1, "L", false, 0, "")
	}
	separador(pdf)

	lineas := make([]lineaImpresa, 0, len(pedido.Lineas))
	for _, l := range pedido.Lineas {
		lineas = append(lineas, lineaImpresa{nombreProducto(l.Producto), l.Cantidad, l.Subtotal})
	}
	imprimirLineas(pdf, tr, ancho, "Subtotal", lineas)
	separador(pdf)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(ancho*0.68, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(ancho*0.32, 6, "$"+pedido.Total.StringFixed(2), "", 1, "R", false, 0, "")

	return salida(pdf)
}
