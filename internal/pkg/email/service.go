package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/invoice"
	"github.com/your-org/storefront-backend/internal/pkg/money"
)

// Notifier renders and sends order emails. It implements
// order.Notifier; checkout and lifecycle code never blocks on it
// beyond the send itself, and all errors are reported back for
// logging only.
type Notifier struct {
	cfg      config.EmailConfig
	company  config.CompanyConfig
	sender   Sender
	invoices *invoice.Service
	format   *money.Formatter
	log      *logrus.Logger

	orderPlaced   *template.Template
	statusChanged *template.Template
	returnUpdated *template.Template
}

// NewNotifier builds the email notifier for the configured provider.
// When email is disabled it still renders nothing and sends nothing,
// but stays safe to call.
func NewNotifier(cfg config.EmailConfig, company config.CompanyConfig, invoices *invoice.Service, log *logrus.Logger) (*Notifier, error) {
	var sender Sender
	switch cfg.Provider {
	case "sendgrid":
		sender = NewSendGridSender(cfg)
	default:
		sender = NewSMTPSender(cfg)
	}

	n := &Notifier{
		cfg:      cfg,
		company:  company,
		sender:   sender,
		invoices: invoices,
		format:   money.NewFormatter(company.CurrencySymbol),
		log:      log,
	}

	var err error
	if n.orderPlaced, err = template.New("order_placed").Parse(orderPlacedTemplate); err != nil {
		return nil, fmt.Errorf("failed to parse order placed template: %w", err)
	}
	if n.statusChanged, err = template.New("status_changed").Parse(statusChangedTemplate); err != nil {
		return nil, fmt.Errorf("failed to parse status changed template: %w", err)
	}
	if n.returnUpdated, err = template.New("return_updated").Parse(returnUpdatedTemplate); err != nil {
		return nil, fmt.Errorf("failed to parse return updated template: %w", err)
	}

	return n, nil
}

type templateLine struct {
	Name      string
	Quantity  int
	LineTotal string
}

type templateData struct {
	CompanyName    string
	CompanyWebsite string
	CustomerName   string
	OrderNumber    string
	OrderDate      string
	Status         string
	StatusNote     string
	ReturnReason   string
	RefundStatus   string
	Lines          []templateLine
	Total          string
}

// OrderPlaced sends the order confirmation with the invoice attached.
func (n *Notifier) OrderPlaced(ctx context.Context, o *order.Order, recipient string) error {
	if !n.cfg.Enabled {
		return nil
	}

	body, err := n.render(n.orderPlaced, o)
	if err != nil {
		return err
	}

	msg := &Message{
		To:       recipient,
		Subject:  fmt.Sprintf("Order confirmation %s", o.OrderNumber),
		HTMLBody: body,
	}

	if n.invoices != nil {
		pdf, err := n.invoices.GeneratePDF(o)
		if err != nil {
			// Confirmation still goes out without the attachment.
			n.log.WithError(err).WithField("order_id", o.ID).Warn("Failed to attach invoice")
		} else {
			msg.Attachments = append(msg.Attachments, Attachment{
				Filename:    fmt.Sprintf("invoice-%s.pdf", strings.ToLower(o.OrderNumber)),
				ContentType: "application/pdf",
				Data:        pdf,
			})
		}
	}

	return n.sender.Send(ctx, msg)
}

// StatusChanged sends a fulfillment update.
func (n *Notifier) StatusChanged(ctx context.Context, o *order.Order, recipient string) error {
	if !n.cfg.Enabled {
		return nil
	}

	body, err := n.render(n.statusChanged, o)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, &Message{
		To:       recipient,
		Subject:  fmt.Sprintf("Your order %s is %s", o.OrderNumber, o.Status),
		HTMLBody: body,
	})
}

// ReturnUpdated sends a return and refund progress update.
func (n *Notifier) ReturnUpdated(ctx context.Context, o *order.Order, recipient string) error {
	if !n.cfg.Enabled {
		return nil
	}

	body, err := n.render(n.returnUpdated, o)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, &Message{
		To:       recipient,
		Subject:  fmt.Sprintf("Return update for order %s", o.OrderNumber),
		HTMLBody: body,
	})
}

func (n *Notifier) render(tmpl *template.Template, o *order.Order) (string, error) {
	data := templateData{
		CompanyName:    n.company.Name,
		CompanyWebsite: n.company.Website,
		CustomerName:   "there",
		OrderNumber:    o.OrderNumber,
		OrderDate:      o.CreatedAt.Format("January 2, 2006"),
		Status:         string(o.Status),
		ReturnReason:   o.ReturnReason,
		RefundStatus:   refundLabel(o.RefundStatus),
		Total:          n.format.Format(o.Total),
	}
	if o.User != nil {
		data.CustomerName = o.User.FullName()
	}
	for _, item := range o.Items {
		data.Lines = append(data.Lines, templateLine{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			LineTotal: n.format.Format(item.LineTotal),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}

func refundLabel(s order.RefundStatus) string {
	switch s {
	case order.RefundPending:
		return "refund pending"
	case order.RefundComplete:
		return "refunded"
	default:
		return "no refund"
	}
}
