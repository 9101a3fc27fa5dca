// internal/services/profile_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javiei/proomtb-backend/internal/models"
	"github.com/javiei/proomtb-backend/internal/session"
	"github.com/javiei/proomtb-backend/internal/utils"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	db  *gorm.DB
	log *logrus.Entry
}

type UpdateProfileRequest struct {
	FullName   string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address    string `json:"address,omitempty" validate:"omitempty,max=255"`
	City       string `json:"city,omitempty" validate:"omitempty,max=100"`
	State      string `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	Country    string `json:"country,omitempty" validate:"omitempty,max=100"`
}

func NewProfileService(db *gorm.DB, logger *logrus.Logger) *ProfileService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProfileService{
		db:  db,
		log: logger.WithField("component", "profile"),
	}
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.Profile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	profile, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	if req.Phone != "" {
		profile.Phone = req.Phone
	}
	if req.Address != "" {
		profile.Address = req.Address
	}
	if req.City != "" {
		profile.City = req.City
	}
	if req.State != "" {
		profile.State = req.State
	}
	if req.PostalCode != "" {
		profile.PostalCode = req.PostalCode
	}
	if req.Country != "" {
		profile.Country = req.Country
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// SyncProfile is the sign-in upsert, keyed by the provider's user id. It is
// idempotent and fills only fields the stored row does not already have:
// provider defaults never overwrite a user's own edits.
func (s *ProfileService) SyncProfile(ctx context.Context, sess *session.Session) error {
	if sess == nil || sess.UserID == "" {
		return errors.New("cannot sync profile without a user id")
	}

	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, "user_id = ?", sess.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{
			UserID:    sess.UserID,
			FullName:  sess.FullName,
			Email:     sess.Email,
			AvatarURL: sess.AvatarURL,
		}
		if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		s.log.WithField("user_id", sess.UserID).Info("Profile created on first sign-in")
		return nil
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	changed := false
	if profile.FullName == "" && sess.FullName != "" {
		profile.FullName = sess.FullName
		changed = true
	}
	if profile.Email == "" && sess.Email != "" {
		profile.Email = sess.Email
		changed = true
	}
	if profile.AvatarURL == "" && sess.AvatarURL != "" {
		profile.AvatarURL = sess.AvatarURL
		changed = true
	}

	if !changed {
		return nil
	}

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return fmt.Errorf("failed to refresh profile: %w", err)
	}
	return nil
}
