package orders

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"everfresh/models"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
)

// GetOrderInvoice renders the order as a PDF invoice.
func GetOrderInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, ok := loadOrderForCaller(ctx, w, r, ps.ByName("id"))
	if !ok {
		return
	}
	items, err := loadOrderItems(ctx, order.ListCartItemID)
	if err != nil {
		http.Error(w, "Could not retrieve order items", http.StatusInternalServerError)
		return
	}

	pdf := buildInvoicePDF(order, items)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=invoice-%s.pdf", order.OrderCode))
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Failed to render invoice", http.StatusInternalServerError)
	}
}

func buildInvoicePDF(order models.Order, items []models.CartItem) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Everfresh Invoice")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Order code: "+order.OrderCode)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date: "+order.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Payment method: "+order.PaymentMethod)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Deliver to: "+order.DeliveryInformation.Address+" "+order.DeliveryInformation.AddressDetail)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Phone: "+order.DeliveryInformation.PhoneNumber)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 8, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Unit price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range items {
		name := item.Product.Name
		if item.CustomColor != "" {
			name += " (" + item.CustomColor + ")"
		}
		pdf.CellFormat(90, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatVND(item.Product.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, utils.FormatVND(item.ItemTotalPrice), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(150, 8, "Delivery ("+order.DeliveryMethod.DeliveryMethodName+")", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, utils.FormatVND(order.DeliveryMethod.Price), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(150, 9, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, utils.FormatVND(order.TotalPrice), "", 1, "R", false, 0, "")

	return pdf
}
