package email

// Inline notification templates. Kept simple so they render the same
// across mail clients.

const baseStyle = `
  body { font-family: Helvetica, Arial, sans-serif; color: #222; }
  .box { max-width: 560px; margin: 0 auto; padding: 24px; }
  .muted { color: #777; font-size: 12px; }
  table { width: 100%; border-collapse: collapse; margin: 16px 0; }
  th { text-align: left; border-bottom: 2px solid #222; padding: 6px 4px; font-size: 13px; }
  td { border-bottom: 1px solid #ddd; padding: 6px 4px; font-size: 13px; }
  .num { text-align: right; }
  .total { font-weight: bold; }
`

const orderPlacedTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>` + baseStyle + `</style></head>
<body><div class="box">
  <h2>Thanks for your order!</h2>
  <p>Hi {{.CustomerName}}, we received your order <strong>{{.OrderNumber}}</strong> on {{.OrderDate}}.</p>
  <table>
    <thead><tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th></tr></thead>
    <tbody>
      {{range .Lines}}
      <tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.LineTotal}}</td></tr>
      {{end}}
      <tr><td class="total" colspan="2">Total</td><td class="num total">{{.Total}}</td></tr>
    </tbody>
  </table>
  <p>Your invoice is attached. We will let you know when your order ships.</p>
  <p class="muted">{{.CompanyName}}{{if .CompanyWebsite}} &middot; {{.CompanyWebsite}}{{end}}</p>
</div></body></html>`

const statusChangedTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>` + baseStyle + `</style></head>
<body><div class="box">
  <h2>Order {{.OrderNumber}} update</h2>
  <p>Hi {{.CustomerName}}, your order is now <strong>{{.Status}}</strong>.</p>
  {{if .StatusNote}}<p>{{.StatusNote}}</p>{{end}}
  <p class="muted">{{.CompanyName}}{{if .CompanyWebsite}} &middot; {{.CompanyWebsite}}{{end}}</p>
</div></body></html>`

const returnUpdatedTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>` + baseStyle + `</style></head>
<body><div class="box">
  <h2>Return update for order {{.OrderNumber}}</h2>
  <p>Hi {{.CustomerName}}, we recorded a return for your order.</p>
  {{if .ReturnReason}}<p>Reason on file: {{.ReturnReason}}</p>{{end}}
  <p>Refund status: <strong>{{.RefundStatus}}</strong>.</p>
  <p class="muted">{{.CompanyName}}{{if .CompanyWebsite}} &middot; {{.CompanyWebsite}}{{end}}</p>
</div></body></html>`
