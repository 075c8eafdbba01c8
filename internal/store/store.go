package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crewops-backend/internal/model"
)

// Store defines the interface for the persistence operations the
// notification engine performs: transport endpoint lifecycle, routing
// policy reads and the activity-label catalog.
type Store interface {
	// Web push subscriptions.
	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionByEndpoint(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	SubscriptionsForUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error)

	// Native device tokens.
	UpsertDeviceToken(ctx context.Context, tok *model.DeviceToken) error
	DeleteDeviceToken(ctx context.Context, token string) error
	DeviceTokensForUsers(ctx context.Context, userIDs []string) ([]model.DeviceToken, error)

	// Routing policy and fallback labels.
	RoutingRulesForEvent(ctx context.Context, eventCode string) ([]model.RoutingRule, error)
	ActivityLabel(ctx context.Context, code string) (string, error)
	ActivityTypes(ctx context.Context) ([]model.ActivityType, error)

	// Job metadata lookups used when composing messages.
	JobByID(ctx context.Context, jobID string) (*model.Job, error)
	TourByID(ctx context.Context, tourID string) (*model.Tour, error)
	UserByID(ctx context.Context, userID string) (*model.User, error)

	// DB exposes the underlying handle for the read-only directory and
	// request handlers that need ad hoc queries.
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UpsertSubscription creates or replaces a web push subscription keyed
// by its endpoint. Re-registration refreshes keys, owner and last-seen.
func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	if sub.LastSeenAt.IsZero() {
		sub.LastSeenAt = time.Now()
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth", "last_seen_at"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *gormStore) SubscriptionByEndpoint(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *gormStore) SubscriptionsForUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	return subs, nil
}

// UpsertDeviceToken creates or replaces a native device token. A token
// re-registered by a different user moves to the new owner.
func (s *gormStore) UpsertDeviceToken(ctx context.Context, tok *model.DeviceToken) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
	}).Create(tok).Error
	if err != nil {
		return fmt.Errorf("upsert device token: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteDeviceToken(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Delete(&model.DeviceToken{Token: token}).Error
}

func (s *gormStore) DeviceTokensForUsers(ctx context.Context, userIDs []string) ([]model.DeviceToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var toks []model.DeviceToken
	if err := s.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&toks).Error; err != nil {
		return nil, fmt.Errorf("load device tokens: %w", err)
	}
	return toks, nil
}

// RoutingRulesForEvent loads the override rules for one event code.
// Called fresh on every dispatch; no caching across events.
func (s *gormStore) RoutingRulesForEvent(ctx context.Context, eventCode string) ([]model.RoutingRule, error) {
	var rules []model.RoutingRule
	if err := s.db.WithContext(ctx).Where("event_code = ?", eventCode).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("load routing rules for %q: %w", eventCode, err)
	}
	return rules, nil
}

func (s *gormStore) ActivityLabel(ctx context.Context, code string) (string, error) {
	var at model.ActivityType
	if err := s.db.WithContext(ctx).First(&at, "code = ?", code).Error; err != nil {
		return "", err
	}
	return at.Label, nil
}

func (s *gormStore) ActivityTypes(ctx context.Context) ([]model.ActivityType, error) {
	var types []model.ActivityType
	if err := s.db.WithContext(ctx).Order("code").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (s *gormStore) JobByID(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	if err := s.db.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *gormStore) TourByID(ctx context.Context, tourID string) (*model.Tour, error) {
	var tour model.Tour
	if err := s.db.WithContext(ctx).First(&tour, "id = ?", tourID).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

func (s *gormStore) UserByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
