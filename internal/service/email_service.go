package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"vocabgems/internal/gems"
	"vocabgems/internal/models"
)

// EmailService sends progress report emails via Amazon SES. When no sender
// address is configured it runs disabled and every send becomes a logged no-op.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled reports whether emails will actually be sent.
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendProgressReport emails a student (or their teacher) a summary of recent
// gem and XP progress.
func (s *EmailService) SendProgressReport(ctx context.Context, toEmail, toName string, summary *models.StudentSummary) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): progress report to %s", toEmail)
		return nil
	}

	subject := "Your VocabGems Progress Report"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #7c3aed; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.stat { font-size: 24px; font-weight: bold; color: #7c3aed; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Progress Report</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Here is your vocabulary progress so far:</p>
			<ul>
				<li>Total XP: <span class="stat">%d</span></li>
				<li>Mastery gems: %d (%d XP)</li>
				<li>Activity gems: %d (%d XP)</li>
				<li>Sessions played: %d</li>
				<li>Accuracy: %.0f%%</li>
			</ul>
			%s
			<p>Keep up the great work!</p>
		</div>
		<div class="footer">
			<p>This is an automated email from VocabGems. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, summary.TotalXP,
		summary.Mastery.Gems, summary.Mastery.XP,
		summary.Activity.Gems, summary.Activity.XP,
		summary.SessionsPlayed, summary.AccuracyPct,
		rarityBreakdownHTML(summary.Mastery.ByRarity))

	textBody := fmt.Sprintf(`Hi %s,

Here is your vocabulary progress so far:

- Total XP: %d
- Mastery gems: %d (%d XP)
- Activity gems: %d (%d XP)
- Sessions played: %d
- Accuracy: %.0f%%

Keep up the great work!

---
This is an automated email from VocabGems. Please do not reply.
`, toName, summary.TotalXP,
		summary.Mastery.Gems, summary.Mastery.XP,
		summary.Activity.Gems, summary.Activity.XP,
		summary.SessionsPlayed, summary.AccuracyPct)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func rarityBreakdownHTML(byRarity map[gems.GemRarity]int) string {
	var b strings.Builder
	b.WriteString("<p>Mastery gems by rarity:</p><ul>")
	items := 0
	for _, r := range gems.AllRarities() {
		if count := byRarity[r]; count > 0 {
			fmt.Fprintf(&b, "<li>%s: %d</li>", r, count)
			items++
		}
	}
	b.WriteString("</ul>")
	if items == 0 {
		return ""
	}
	return b.String()
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message id: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
