package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/repository"
	"github.com/Sanjey2005/friends-associates/internal/services"
)

// UserStore is the credential store for customer accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	PhoneTakenByOther(ctx context.Context, phone string, id uuid.UUID) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, id uuid.UUID) (bool, error)
	FindByVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Update(ctx context.Context, id uuid.UUID, name, phone string, email *string) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// AdminStore is the credential store for back-office accounts.
type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// VehicleStore persists vehicles.
type VehicleStore interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error)
	ListAll(ctx context.Context) ([]models.Vehicle, error)
	Count(ctx context.Context) (int64, error)
}

// PolicyStore persists policies.
type PolicyStore interface {
	Create(ctx context.Context, policy *models.Policy) error
	Update(ctx context.Context, id uuid.UUID, upd repository.PolicyUpdate) (*models.Policy, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Policy, error)
	ListAll(ctx context.Context, filter models.PolicyFilter) ([]models.Policy, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// LeadStore persists quote requests.
type LeadStore interface {
	Create(ctx context.Context, lead *models.Lead) error
	List(ctx context.Context, limit, offset int) ([]models.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Lead, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ChatStore persists support threads.
type ChatStore interface {
	FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Chat, error)
	Append(ctx context.Context, userID uuid.UUID, msg models.ChatMessage) (*models.Chat, error)
	ListAll(ctx context.Context) ([]models.Chat, error)
}

// AccountMailer sends account lifecycle mail. Implementations swallow
// delivery failures.
type AccountMailer interface {
	SendVerification(ctx context.Context, to, token string) bool
	SendPasswordReset(ctx context.Context, to, token string) bool
}

// LeadNotifier alerts staff about new quote requests.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, lead services.LeadNotification)
}

// ReminderRunner executes one reminder scan.
type ReminderRunner interface {
	Run(ctx context.Context) (*services.ReminderReport, error)
}
