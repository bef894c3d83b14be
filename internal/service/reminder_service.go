package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"strokeclash/internal/models"
	"strokeclash/internal/repository"
)

// ReminderService emails learners when characters come due for review,
// via Amazon SES. Without a configured sender address the service is
// disabled and every send becomes a logged no-op.
type ReminderService struct {
	client       *sesv2.Client
	userRepo     *repository.UserRepository
	progressRepo *repository.ProgressRepository
	fromEmail    string
	fromName     string
	appBaseURL   string
	enabled      bool

	mu       sync.Mutex
	lastSent map[int64]time.Time
}

// reminderInterval suppresses repeat reminders: at most one per user per day
const reminderInterval = 24 * time.Hour

// NewReminderService creates a new reminder service
func NewReminderService(
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	awsRegion, fromEmail, fromName, appBaseURL string,
) (*ReminderService, error) {
	if fromEmail == "" {
		log.Println("Reminder emails disabled: SES_FROM_EMAIL not configured")
		return &ReminderService{
			userRepo:     userRepo,
			progressRepo: progressRepo,
			enabled:      false,
			lastSent:     make(map[int64]time.Time),
		}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Reminder emails enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &ReminderService{
		client:       sesv2.NewFromConfig(cfg),
		userRepo:     userRepo,
		progressRepo: progressRepo,
		fromEmail:    fromEmail,
		fromName:     fromName,
		appBaseURL:   appBaseURL,
		enabled:      true,
		lastSent:     make(map[int64]time.Time),
	}, nil
}

// IsEnabled returns whether reminder emails are enabled
func (s *ReminderService) IsEnabled() bool {
	return s.enabled
}

// SendDueReminders emails every user with an email on file and at least one
// character due for review. Returns how many reminders were sent.
func (s *ReminderService) SendDueReminders(ctx context.Context, now time.Time) (int, error) {
	if !s.enabled {
		return 0, nil
	}

	users, err := s.userRepo.GetUsersWithDueReviews(now)
	if err != nil {
		return 0, fmt.Errorf("failed to find users with due reviews: %w", err)
	}

	sent := 0
	for _, user := range users {
		if !s.shouldRemind(user.ID, now) {
			continue
		}
		due, err := s.progressRepo.CountDue(user.ID, now)
		if err != nil {
			return sent, fmt.Errorf("failed to count due reviews for %s: %w", user.Username, err)
		}
		if due == 0 {
			continue
		}
		if err := s.sendReviewReminder(ctx, user, due); err != nil {
			// One bad address shouldn't block the rest of the run
			log.Printf("Failed to send review reminder to %s: %v", user.Email, err)
			continue
		}
		s.markReminded(user.ID, now)
		sent++
	}
	return sent, nil
}

func (s *ReminderService) shouldRemind(userID int64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastSent[userID]
	return !ok || now.Sub(last) >= reminderInterval
}

func (s *ReminderService) markReminded(userID int64, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSent[userID] = now
}

func (s *ReminderService) sendReviewReminder(ctx context.Context, user models.User, dueCount int) error {
	name := user.DisplayName
	if name == "" {
		name = user.Username
	}

	subject := fmt.Sprintf("%d characters ready for review", dueCount)
	practiceLink := fmt.Sprintf("%s/practice", s.appBaseURL)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<p>Hi %s,</p>
		<p>You have <strong>%d characters</strong> due for review. A quick practice session now keeps them fresh.</p>
		<p style="text-align: center;">
			<a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #4a90e2; color: white; text-decoration: none; border-radius: 5px;">Start Reviewing</a>
		</p>
		<p style="font-size: 12px; color: #666;">This is an automated reminder from StrokeClash. Please do not reply.</p>
	</div>
</body>
</html>
`, name, dueCount, practiceLink)

	textBody := fmt.Sprintf(`Hi %s,

You have %d characters due for review. A quick practice session now keeps them fresh.

Start reviewing: %s

---
This is an automated reminder from StrokeClash. Please do not reply.
`, name, dueCount, practiceLink)

	return s.sendEmail(ctx, user.Email, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *ReminderService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
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

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Review reminder sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
