// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const (
	ReminderSent   = "sent"
	ReminderFailed = "failed"
	channelSMS     = "sms"
)

// SMSSender delivers a text message and returns the provider message id.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type ReminderService struct {
	db     *gorm.DB
	sender SMSSender
	log    *slog.Logger
	now    func() time.Time
}

func NewReminderService(db *gorm.DB, sender SMSSender, log *slog.Logger) *ReminderService {
	return &ReminderService{db: db, sender: sender, log: log, now: time.Now}
}

// Run sends reminders on the cron schedule until ctx is cancelled.
func (s *ReminderService) Run(ctx context.Context, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.SendDailyReminders(ctx); err != nil {
			s.log.Error("reminder run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	c.Start()
	s.log.Info("reminder scheduler started", "schedule", schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("reminder scheduler stopped")
	return nil
}

type ReminderSummary struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// SendDailyReminders texts every confirmed reservation for today that has
// not yet received a reminder. Each attempt is recorded in reminder_logs.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (*ReminderSummary, error) {
	today := utils.Today(s.now())
	db := s.db.WithContext(ctx)

	reminded := db.Model(&models.ReminderLog{}).Select("reservation_id").Where("status = ?", ReminderSent)

	var reservations []models.Reservation
	err := db.Preload("Table").
		Where("reservation_date = ? AND status = ?", today, models.ReservationConfirmed).
		Where("id NOT IN (?)", reminded).
		Order("reservation_time").
		Find(&reservations).Error
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to load reservations for reminders")
	}

	summary := &ReminderSummary{}
	for i := range reservations {
		r := &reservations[i]
		message := reminderMessage(r)

		entry := models.ReminderLog{
			ReservationID: r.ID,
			Phone:         r.Phone,
			Message:       message,
			Status:        ReminderSent,
			Channel:       channelSMS,
			SentAt:        s.now().UTC(),
		}

		sid, err := s.sender.Send(ctx, r.Phone, message)
		if err != nil {
			s.log.Warn("reminder not delivered", "reservation_id", r.ID, "error", err)
			entry.Status = ReminderFailed
			entry.ErrorMessage = err.Error()
			summary.Failed++
		} else {
			s.log.Info("reminder sent", "reservation_id", r.ID, "sid", sid)
			summary.Sent++
		}

		if err := db.Create(&entry).Error; err != nil {
			s.log.Error("failed to log reminder", "reservation_id", r.ID, "error", err)
		}
	}

	s.log.Info("daily reminders processed", "date", today, "sent", summary.Sent, "failed", summary.Failed)
	return summary, nil
}

func reminderMessage(r *models.Reservation) string {
	return fmt.Sprintf("Hi %s, this is a reminder of your reservation today at %s for %d guests at table %d. See you soon!",
		r.CustomerName, r.Time, r.PartySize, r.Table.Number)
}
