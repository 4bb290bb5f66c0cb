// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/product-cart/internal/config"
	"github.com/your-org/product-cart/internal/domain/order"
)

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": order.Money,
}).Parse(receiptTemplate))

// Service renders order receipts
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	StoreName   string        `json:"store_name"`
	Title       string        `json:"title"`
	OrderNumber string        `json:"order_number,omitempty"`
	Date        string        `json:"date"`
	Summary     order.Summary `json:"summary"`
}

// NewReceiptData builds the receipt for a cart summary. orderNumber may be
// empty for a cart that has not been confirmed yet.
func (s *Service) NewReceiptData(summary order.Summary, orderNumber string, at time.Time) ReceiptData {
	title := "Order Summary"
	if orderNumber != "" {
		title = "Order Confirmed"
	}
	return ReceiptData{
		StoreName:   s.config.Receipt.StoreName,
		Title:       title,
		OrderNumber: orderNumber,
		Date:        at.Format("January 2, 2006"),
		Summary:     summary,
	}
}

// RenderHTML renders the receipt as a standalone HTML document
func (s *Service) RenderHTML(data ReceiptData) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateReceipt converts the receipt to PDF. It needs the wkhtmltopdf
// binary on PATH or in WKHTMLTOPDF_PATH.
func (s *Service) GenerateReceipt(data ReceiptData) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(s.config.Receipt.PDFDpi)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterCenter.Set(data.StoreName)
	page.FooterFontSize.Set(8)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.StoreName}} - {{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 24px; color: #260f08; }
        h1 { font-size: 24px; margin: 0 0 4px; }
        .meta { color: #87635a; font-size: 13px; margin-bottom: 24px; }
        table { width: 100%; border-collapse: collapse; }
        td { padding: 12px 0; border-bottom: 1px solid #f5eeec; vertical-align: top; }
        .name { font-weight: bold; }
        .detail { color: #87635a; font-size: 13px; }
        .qty { color: #c73b0f; font-weight: bold; margin-right: 8px; }
        .line-total { text-align: right; font-weight: bold; }
        .total td { border-bottom: none; padding-top: 20px; }
        .total .amount { text-align: right; font-size: 22px; font-weight: bold; }
        .empty { color: #87635a; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <div class="meta">{{.StoreName}} &middot; {{.Date}}{{if .OrderNumber}} &middot; {{.OrderNumber}}{{end}}</div>
    {{if .Summary.Empty}}
    <p class="empty">Your added items will appear here</p>
    {{else}}
    <table>
        {{range .Summary.Lines}}
        <tr>
            <td>
                <div class="name">{{.Name}}</div>
                <div class="detail"><span class="qty">{{.Quantity}}x</span>@ {{money .UnitPrice}}</div>
            </td>
            <td class="line-total">{{money .LineTotal}}</td>
        </tr>
        {{end}}
        <tr class="total">
            <td>Order Total</td>
            <td class="amount">{{money .Summary.Total}}</td>
        </tr>
    </table>
    {{end}}
</body>
</html>
`
