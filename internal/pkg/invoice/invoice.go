package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/money"
)

// Service renders order invoices as HTML and PDF.
type Service struct {
	company config.CompanyConfig
	format  *money.Formatter
	tmpl    *template.Template
}

// NewService creates an invoice service.
func NewService(company config.CompanyConfig) (*Service, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &Service{
		company: company,
		format:  money.NewFormatter(company.CurrencySymbol),
		tmpl:    tmpl,
	}, nil
}

type lineData struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

type invoiceData struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	CompanyWebsite string
	OrderNumber    string
	OrderDate      string
	GeneratedAt    string
	CustomerName   string
	CustomerEmail  string
	Status         string
	Lines          []lineData
	Total          string
}

// BuildHTML renders the invoice document for an order. Amounts come
// from the order's own snapshots, so the output is stable even after
// the catalog changes.
func (s *Service) BuildHTML(o *order.Order) (string, error) {
	data := invoiceData{
		CompanyName:    s.company.Name,
		CompanyAddress: s.company.Address,
		CompanyPhone:   s.company.Phone,
		CompanyEmail:   s.company.Email,
		CompanyWebsite: s.company.Website,
		OrderNumber:    o.OrderNumber,
		OrderDate:      o.CreatedAt.Format("January 2, 2006"),
		GeneratedAt:    time.Now().Format("January 2, 2006 15:04"),
		Status:         string(o.Status),
		Total:          s.format.Format(o.Total),
	}
	if o.User != nil {
		data.CustomerName = o.User.FullName()
		data.CustomerEmail = o.User.Email
	}
	for _, item := range o.Items {
		data.Lines = append(data.Lines, lineData{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: s.format.Format(item.Price),
			LineTotal: s.format.Format(item.LineTotal),
		})
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF renders the invoice as a PDF via wkhtmltopdf.
func (s *Service) GeneratePDF(o *order.Order) ([]byte, error) {
	html, err := s.BuildHTML(o)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to init pdf generator: %w", err)
	}
	pdfg.Dpi.Set(300)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.MarginTop.Set(10)
	pdfg.MarginBottom.Set(10)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(html)))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to generate pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.OrderNumber}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
  .header { display: flex; justify-content: space-between; margin-bottom: 30px; }
  .company { font-size: 20px; font-weight: bold; }
  .muted { color: #777; font-size: 12px; }
  table { width: 100%; border-collapse: collapse; margin-top: 20px; }
  th { text-align: left; border-bottom: 2px solid #222; padding: 8px 4px; font-size: 13px; }
  td { border-bottom: 1px solid #ddd; padding: 8px 4px; font-size: 13px; }
  .num { text-align: right; }
  .total-row td { border-bottom: none; font-weight: bold; font-size: 15px; padding-top: 16px; }
  .status { text-transform: uppercase; font-size: 12px; letter-spacing: 1px; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <div class="company">{{.CompanyName}}</div>
      {{if .CompanyAddress}}<div class="muted">{{.CompanyAddress}}</div>{{end}}
      {{if .CompanyPhone}}<div class="muted">{{.CompanyPhone}}</div>{{end}}
      {{if .CompanyEmail}}<div class="muted">{{.CompanyEmail}}</div>{{end}}
      {{if .CompanyWebsite}}<div class="muted">{{.CompanyWebsite}}</div>{{end}}
    </div>
    <div>
      <h2>Invoice</h2>
      <div>{{.OrderNumber}}</div>
      <div class="muted">Order date: {{.OrderDate}}</div>
      <div class="muted">Generated: {{.GeneratedAt}}</div>
      <div class="status">{{.Status}}</div>
    </div>
  </div>

  {{if .CustomerName}}
  <div>
    <strong>Billed to</strong>
    <div>{{.CustomerName}}</div>
    <div class="muted">{{.CustomerEmail}}</div>
  </div>
  {{end}}

  <table>
    <thead>
      <tr>
        <th>Item</th>
        <th class="num">Qty</th>
        <th class="num">Unit price</th>
        <th class="num">Amount</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Name}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{.UnitPrice}}</td>
        <td class="num">{{.LineTotal}}</td>
      </tr>
      {{end}}
      <tr class="total-row">
        <td colspan="3">Total</td>
        <td class="num">{{.Total}}</td>
      </tr>
    </tbody>
  </table>

  <p class="muted">Thank you for your order.</p>
</body>
</html>`
