package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
)

type emailService struct {
	apiKey     string
	fromEmail  string
	fromName   string
	recipients []string
	send       func(msg *mail.SGMailV3) error
}

// NewEmailService sends through SendGrid. With no API key messages are
// rendered and logged but not delivered.
func NewEmailService(apiKey, fromEmail, fromName string, recipients []string) EmailService {
	s := &emailService{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		recipients: recipients,
	}
	s.send = s.sendViaSendGrid
	return s
}

func (s *emailService) sendViaSendGrid(msg *mail.SGMailV3) error {
	if s.apiKey == "" {
		logger.Info("SendGrid API key not configured, skipping delivery", "subject", msg.Subject)
		return nil
	}
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendDailyDigest(ctx context.Context, digest *DailyDigest) error {
	if len(s.recipients) == 0 {
		logger.WarnContext(ctx, "Daily digest has no recipients configured")
		return nil
	}

	subject := fmt.Sprintf("Cheque Ledger digest for %s", digest.Date.Format("2006-01-02"))
	html, err := renderDigestHTML(digest)
	if err != nil {
		return fmt.Errorf("render digest: %w", err)
	}

	msg := mail.NewV3Mail()
	msg.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	msg.Subject = subject
	p := mail.NewPersonalization()
	for _, r := range s.recipients {
		p.AddTos(mail.NewEmail("", r))
	}
	msg.AddPersonalizations(p)
	msg.AddContent(
		mail.NewContent("text/plain", renderDigestText(digest)),
		mail.NewContent("text/html", html),
	)

	logger.ExternalServiceCall("sendgrid", "SendDailyDigest", "recipients", len(s.recipients))
	err = s.send(msg)
	logger.ExternalServiceResult("sendgrid", "SendDailyDigest", err)
	return err
}

func renderDigestText(d *DailyDigest) string {
	var b strings.Builder
	sum := d.Summary
	fmt.Fprintf(&b, "Cheque Ledger digest for %s\n\n", d.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Transactions: %d (pending %d, completed %d, bounced %d)\n",
		sum.TransactionCount, sum.PendingCount, sum.CompletedCount, sum.BouncedCount)
	fmt.Fprintf(&b, "Cheque amount: %s\n", sum.TotalChequeAmount.StringFixed(2))
	fmt.Fprintf(&b, "Profit: %s\n", sum.TotalProfit.StringFixed(2))
	fmt.Fprintf(&b, "Outstanding from vendors: %s\n", sum.OutstandingBalance.StringFixed(2))

	writeBalances(&b, "Owed to customers", d.CustomerBalance)
	writeBalances(&b, "Receivable from vendors", d.VendorBalance)
	return b.String()
}

func writeBalances(b *strings.Builder, title string, balances []domain.PartyBalance) {
	open := openBalances(balances)
	if len(open) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, pb := range open {
		fmt.Fprintf(b, "  %-30s %12s\n", pb.PartyName, pb.Balance.StringFixed(2))
	}
}

// openBalances drops settled parties.
func openBalances(balances []domain.PartyBalance) []domain.PartyBalance {
	var open []domain.PartyBalance
	for _, pb := range balances {
		if !pb.Balance.IsZero() {
			open = append(open, pb)
		}
	}
	return open
}

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).Parse(`<html>
	<body>
		<h2>Cheque Ledger digest for {{.Date.Format "2006-01-02"}}</h2>
		<p>{{.Summary.TransactionCount}} transactions ({{.Summary.PendingCount}} pending, {{.Summary.CompletedCount}} completed, {{.Summary.BouncedCount}} bounced)</p>
		<ul>
			<li>Cheque amount: <strong>{{money .Summary.TotalChequeAmount}}</strong></li>
			<li>Profit: <strong>{{money .Summary.TotalProfit}}</strong></li>
			<li>Outstanding from vendors: <strong>{{money .Summary.OutstandingBalance}}</strong></li>
		</ul>
		{{if .Customers}}<h3>Owed to customers</h3>
		<table>{{range .Customers}}<tr><td>{{.PartyName}}</td><td align="right">{{money .Balance}}</td></tr>{{end}}</table>{{end}}
		{{if .Vendors}}<h3>Receivable from vendors</h3>
		<table>{{range .Vendors}}<tr><td>{{.PartyName}}</td><td align="right">{{money .Balance}}</td></tr>{{end}}</table>{{end}}
	</body>
</html>`))

func renderDigestHTML(d *DailyDigest) (string, error) {
	var buf bytes.Buffer
	err := digestTemplate.Execute(&buf, struct {
		*DailyDigest
		Customers []domain.PartyBalance
		Vendors   []domain.PartyBalance
	}{d, openBalances(d.CustomerBalance), openBalances(d.VendorBalance)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
