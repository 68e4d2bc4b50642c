package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Sanjey2005/friends-associates/internal/models"
)

// ChatRepository persists support threads.
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository constructs a ChatRepository.
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// FindOrCreate returns the thread of userID, creating an empty one first if
// none exists.
func (r *ChatRepository) FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureChat(tx, userID, time.Now()); err != nil {
			return err
		}
		return loadChat(tx, userID, &chat)
	})
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// Append adds a message to the thread of userID and moves lastUpdated to the
// message timestamp in one transaction. The thread is created when missing.
// The thread row stays locked until commit, so concurrent appends are
// serialized and a message is never stamped earlier than the one before it.
func (r *ChatRepository) Append(ctx context.Context, userID uuid.UUID, msg models.ChatMessage) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureChat(tx, userID, msg.Timestamp); err != nil {
			return err
		}

		var head models.Chat
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "last_updated").
			Where("user_id = ?", userID).
			First(&head).Error; err != nil {
			return err
		}
		if msg.Timestamp.Before(head.LastUpdated) {
			msg.Timestamp = head.LastUpdated
		}

		msg.ChatID = head.ID
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Chat{}).
			Where("id = ?", head.ID).
			Updates(map[string]interface{}{"last_updated": msg.Timestamp, "updated_at": msg.Timestamp}).Error; err != nil {
			return err
		}

		return loadChat(tx, userID, &chat)
	})
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListAll returns every thread with its owner loaded, most recently active
// first.
func (r *ChatRepository) ListAll(ctx context.Context) ([]models.Chat, error) {
	var chats []models.Chat
	if err := r.db.WithContext(ctx).
		Preload("User", selectUserSummary).
		Preload("Messages", orderMessages).
		Order("last_updated desc").
		Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}

func ensureChat(tx *gorm.DB, userID uuid.UUID, at time.Time) error {
	chat := models.Chat{UserID: userID, LastUpdated: at}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&chat).Error
}

func loadChat(tx *gorm.DB, userID uuid.UUID, chat *models.Chat) error {
	return tx.Preload("Messages", orderMessages).Where("user_id = ?", userID).First(chat).Error
}

func orderMessages(db *gorm.DB) *gorm.DB {
	return db.Order("seq asc")
}
