// Package ses envía por correo los enlaces de facturas compartidas con Amazon SES v2.
package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appbilling "github.com/jhoicas/asha-billing/internal/application/billing"
)

var _ appbilling.Mailer = (*Mailer)(nil)

// Mailer implementa billing.Mailer.
type Mailer struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewMailer carga la configuración AWS por defecto para region.
func NewMailer(ctx context.Context, region, fromAddress, fromName string) (*Mailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &Mailer{client: sesv2.NewFromConfig(cfg), fromAddress: fromAddress, fromName: fromName}, nil
}

// SendInvoiceLink envía por correo el enlace de descarga de una cuenta.
func (m *Mailer) SendInvoiceLink(ctx context.Context, to, billNumber, link string) error {
	input := BuildMessage(m.fromName, m.fromAddress, to, billNumber, link)
	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// BuildMessage arma la solicitud SES con cuerpos de texto y HTML.
func BuildMessage(fromName, fromAddress, to, billNumber, link string) *sesv2.SendEmailInput {
	from := fmt.Sprintf("%s <%s>", fromName, fromAddress)
	subject := fmt.Sprintf("%s - Invoice for Bill %s", fromName, billNumber)
	textBody := fmt.Sprintf("Namaste,\n\nYour tax invoice for bill %s is ready:\n%s\n\nThe link expires, so please download a copy.\n\n%s", billNumber, link, fromName)
	htmlBody := buildInvoiceHTML(fromName, billNumber, link)

	return &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	}
}

func buildInvoiceHTML(company, bill, link string) string {
	company, bill, link = html.EscapeString(company), html.EscapeString(bill), html.EscapeString(link)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #22417E;">Tax invoice %s</h2>
  <p>Namaste,</p>
  <p>Your tax invoice for bill <strong>%s</strong> is ready.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #22417E; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Download invoice</a>
  </p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <p style="color: #999; font-size: 12px;">The link expires, so please keep a copy.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`, bill, bill, link, link, company)
}
