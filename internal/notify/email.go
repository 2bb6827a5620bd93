package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/wneessen/go-mail"
)

const ChannelEmail = "email"

var reorderBody = template.Must(template.New("reorder").Parse(`Dear {{.VendorName}},

We would like to place a reorder for the following product:

- Product: {{.Product}}
- Quantity: {{.Quantity}} units
- Expected Delivery Date: {{.ExpectedDeliveryDate}}

Please confirm the delivery schedule.

Regards,
Inventory Management System
`))

type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailNotifier sends the reorder letter to the vendor over SMTP.
type EmailNotifier struct {
	from   string
	sender mailSender
}

func NewEmailNotifier(cfg config.NotifyConfig) (*EmailNotifier, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("smtp host must be provided")
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}

	opts := []mail.Option{mail.WithPort(cfg.SMTPPort)}
	if cfg.SMTPUseSSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &EmailNotifier{from: from, sender: client}, nil
}

func (n *EmailNotifier) Channel() string { return ChannelEmail }

func (n *EmailNotifier) Send(ctx context.Context, req domain.ReorderRequest) error {
	msg, err := buildReorderMessage(n.from, req)
	if err != nil {
		return err
	}
	if err := n.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", req.VendorEmail, err)
	}
	return nil
}

func buildReorderMessage(from string, req domain.ReorderRequest) (*mail.Msg, error) {
	body, err := renderReorderBody(req)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", from, err)
	}
	if err := msg.To(req.VendorEmail); err != nil {
		return nil, fmt.Errorf("invalid vendor address %q: %w", req.VendorEmail, err)
	}
	msg.Subject(reorderSubject(req.Product))
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

func reorderSubject(product string) string {
	return fmt.Sprintf("Reorder Request for %s", product)
}

func renderReorderBody(req domain.ReorderRequest) (string, error) {
	var buf bytes.Buffer
	if err := reorderBody.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("render reorder body: %w", err)
	}
	return buf.String(), nil
}

var _ Notifier = (*EmailNotifier)(nil)
