package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"learnloop/internal/repository"
	"learnloop/internal/security"
)

// reminderBatchSize bounds how many due reviews one dispatch run handles
const reminderBatchSize = 100

// ReminderService emails users about due reviews via Amazon SES. Each
// reminder carries a signed one-click completion link.
type ReminderService struct {
	client      *sesv2.Client
	itemRepo    *repository.ItemRepository
	fromEmail   string
	fromName    string
	appBaseURL  string
	tokenSecret string
	enabled     bool
}

// NewReminderService creates a new reminder service. With no from-address
// configured the service is created disabled and dispatch runs are
// no-ops.
func NewReminderService(itemRepo *repository.ItemRepository, awsRegion, fromEmail, fromName, appBaseURL, tokenSecret string) (*ReminderService, error) {
	if fromEmail == "" {
		log.Println("Reminder email disabled: SES_FROM_EMAIL not configured")
		return &ReminderService{itemRepo: itemRepo, enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Reminder email enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &ReminderService{
		client:      sesv2.NewFromConfig(cfg),
		itemRepo:    itemRepo,
		fromEmail:   fromEmail,
		fromName:    fromName,
		appBaseURL:  appBaseURL,
		tokenSecret: tokenSecret,
		enabled:     true,
	}, nil
}

// IsEnabled returns whether the reminder service is enabled
func (s *ReminderService) IsEnabled() bool {
	return s.enabled
}

// DispatchDueReminders emails one reminder per review that became due
// before now, then marks each sent review so later runs skip it. Send
// failures are logged and skipped so one bad address does not block the
// batch; the failed review stays unmarked and is retried next run.
func (s *ReminderService) DispatchDueReminders(ctx context.Context) (int, error) {
	if !s.enabled {
		return 0, nil
	}

	due, err := s.itemRepo.GetDueSchedules(time.Now(), reminderBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to find due reviews: %w", err)
	}

	sent := 0
	for _, reminder := range due {
		if err := s.sendReminder(ctx, reminder); err != nil {
			log.Printf("Failed to send reminder for schedule %d: %v", reminder.ScheduleID, err)
			continue
		}
		if err := s.itemRepo.MarkScheduleReminded(reminder.ScheduleID, time.Now()); err != nil {
			log.Printf("Failed to mark reminder sent for schedule %d: %v", reminder.ScheduleID, err)
		}
		sent++
	}

	return sent, nil
}

func (s *ReminderService) sendReminder(ctx context.Context, reminder repository.DueReminder) error {
	token, err := security.MintCompletionToken(s.tokenSecret, reminder.ScheduleID, 7*24*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to mint completion token: %w", err)
	}
	completeLink := fmt.Sprintf("%s/reviews/complete?token=%s", s.appBaseURL, token)

	subject := fmt.Sprintf("Time to review: %s", reminder.ItemTitle)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Review #%d is due</h2>
	<p>Your review of <strong>%s</strong> was scheduled for %s.</p>
	<p><a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px;">Mark as reviewed</a></p>
	<p style="font-size: 12px; color: #666;">The link works for 7 days. If you did not sign up, you can ignore this email.</p>
</body>
</html>`,
		reminder.ReviewNumber, reminder.ItemTitle, reminder.ReviewDate.Format("Jan 2, 2006 15:04"), completeLink)

	textBody := fmt.Sprintf("Review #%d of %q was scheduled for %s.\nMark it as reviewed: %s\n",
		reminder.ReviewNumber, reminder.ItemTitle, reminder.ReviewDate.Format("Jan 2, 2006 15:04"), completeLink)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{reminder.UserEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
