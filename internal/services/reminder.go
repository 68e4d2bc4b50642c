package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sanjey2005/friends-associates/internal/metrics"
	"github.com/Sanjey2005/friends-associates/internal/models"
)

// DuePolicyStore is the slice of the policy store the reminder job needs.
type DuePolicyStore interface {
	ListDue(ctx context.Context, start, end time.Time) ([]models.Policy, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ReminderMailer delivers expiry reminders.
type ReminderMailer interface {
	SendExpiryReminder(ctx context.Context, to string, reminder ExpiryReminder) bool
}

// ReminderResult describes one reminded policy.
type ReminderResult struct {
	Email    string    `json:"email"`
	PolicyID uuid.UUID `json:"policyId"`
	Status   string    `json:"status"`
}

// ReminderReport is the outcome of a reminder run.
type ReminderReport struct {
	Success   bool             `json:"success"`
	Processed int              `json:"processed"`
	Results   []ReminderResult `json:"results"`
}

// ReminderService finds Active policies expiring exactly one week from today,
// emails their owners and marks them Expiring Soon. Marking is what keeps a
// second run on the same day from mailing again.
type ReminderService struct {
	policies DuePolicyStore
	mailer   ReminderMailer
	log      *zap.Logger
	now      func() time.Time
}

// NewReminderService constructs a ReminderService.
func NewReminderService(policies DuePolicyStore, mailer ReminderMailer, log *zap.Logger) *ReminderService {
	return &ReminderService{policies: policies, mailer: mailer, log: log, now: time.Now}
}

// DueWindow returns the calendar day seven days after now, in now's location.
func DueWindow(now time.Time) (time.Time, time.Time) {
	target := now.AddDate(0, 0, 7)
	start := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// Run performs one reminder scan.
func (s *ReminderService) Run(ctx context.Context) (*ReminderReport, error) {
	start, end := DueWindow(s.now())

	policies, err := s.policies.ListDue(ctx, start, end)
	if err != nil {
		metrics.ReminderRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	s.log.Info("reminder scan",
		zap.String("target_day", start.Format("2006-01-02")),
		zap.Int("due", len(policies)))

	report := &ReminderReport{Success: true, Results: []ReminderResult{}}
	for i := range policies {
		policy := &policies[i]

		email := policy.User.EmailAddress()
		if email == "" {
			s.log.Debug("policy owner has no email", zap.String("policy_id", policy.ID.String()))
			continue
		}

		reminder := ExpiryReminder{
			Name:       policy.User.Name,
			ExpiryDate: policy.ExpiryDate,
			PolicyLink: policy.PolicyLink,
		}
		if policy.Vehicle != nil {
			reminder.VehicleModel = policy.Vehicle.VehicleModel
			reminder.RegNumber = policy.Vehicle.RegNumber
		}

		s.mailer.SendExpiryReminder(ctx, email, reminder)

		if err := s.policies.SetStatus(ctx, policy.ID, models.PolicyExpiringSoon); err != nil {
			metrics.ReminderRuns.WithLabelValues("error").Inc()
			return nil, err
		}

		metrics.RemindersSent.Inc()
		report.Results = append(report.Results, ReminderResult{
			Email:    email,
			PolicyID: policy.ID,
			Status:   "Sent",
		})
	}

	report.Processed = len(report.Results)
	metrics.ReminderRuns.WithLabelValues("ok").Inc()
	return report, nil
}
