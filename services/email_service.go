package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/izzico/izzico-backend/config"
	"github.com/izzico/izzico-backend/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

// EmailSender is the notification contract the settlement flow depends on.
type EmailSender interface {
	SendSettlementReportedEmail(ctx context.Context, data SettlementEmailData) error
}

// SettlementEmailData carries the template fields for a settlement
// notification sent to the payee.
type SettlementEmailData struct {
	To              string
	PayeeName       string
	PayerName       string
	PropertyName    string
	AmountFormatted string
	Method          string
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

type EmailService struct {
	config  *config.EmailConfig
	client  *resend.Client
	metrics *EmailMetrics
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service", "from", cfg.FromAddress)
	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "izzico_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "izzico_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "izzico_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:  cfg,
		client:  client,
		metrics: metrics,
	}
}

// SendSettlementReportedEmail notifies the payee that a roommate reported a
// payment toward their balance. Sending is best effort; the settlement is
// already persisted when this runs.
func (s *EmailService) SendSettlementReportedEmail(ctx context.Context, data SettlementEmailData) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	tmpl, err := template.New("settlement_reported").Parse(settlementReportedTemplate)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to parse email template", "error", err)
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var htmlContent bytes.Buffer
	if err := tmpl.Execute(&htmlContent, data); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to execute email template", "error", err)
		return fmt.Errorf("failed to execute template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{data.To},
		Subject: fmt.Sprintf("%s reported a payment of %s", data.PayerName, data.AmountFormatted),
		Html:    htmlContent.String(),
	}

	_, err = s.client.Emails.Send(params)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send email",
			"error", err,
			"to", logger.MaskEmail(data.To))
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Email sent successfully", "to", logger.MaskEmail(data.To))

	return nil
}

const settlementReportedTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Payment reported</title>
    <style>
        body {
            font-family: 'sans-serif';
            background-color: #f7f7f7;
            color: #333333;
            margin: 0;
            padding: 20px;
            text-align: center;
        }
        .container {
            background-color: #ffffff;
            border-radius: 8px;
            max-width: 480px;
            margin: 0 auto;
            padding: 32px;
            text-align: left;
        }
        .amount {
            font-size: 28px;
            font-weight: bold;
            color: #1a7f5a;
        }
        .footer {
            margin-top: 24px;
            font-size: 12px;
            color: #999999;
        }
    </style>
</head>
<body>
    <div class="container">
        <h2>Hi {{.PayeeName}},</h2>
        <p>{{.PayerName}} reported a payment to you in <strong>{{.PropertyName}}</strong>:</p>
        <p class="amount">{{.AmountFormatted}}</p>
        <p>Method: {{.Method}}</p>
        <p>The payment was made outside the platform. Please check your account
        and reconcile your shared expenses once it arrives.</p>
        <div class="footer">
            You receive this email because you share expenses on Izzico.
        </div>
    </div>
</body>
</html>`
