package store

import (
	"context"
	"errors"
	"fmt"

	"inputvote/backend/internal/models"
	"inputvote/backend/internal/vote"

	"gorm.io/gorm"
)

// UserStore keeps the accounts created by Steam logins.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// GetOrCreate returns the user with the given Steam ID, creating it on first
// login. A concurrent login creating the same user is resolved by re-reading.
func (s *UserStore) GetOrCreate(ctx context.Context, steamID string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("steam_id = ?", steamID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{SteamID: steamID}
	err = db.Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		user = models.User{}
		err = db.Where("steam_id = ?", steamID).First(&user).Error
	}
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", steamID, err)
	}
	return &user, nil
}

// Get returns the user, or vote.ErrUnauthenticated if it no longer exists.
func (s *UserStore) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, vote.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) UpdateNickname(ctx context.Context, id uint, nickname string) error {
	return s.db.WithContext(ctx).Model(&models.User{ID: id}).Update("nickname", nickname).Error
}

func (s *UserStore) IsAdmin(ctx context.Context, id uint) (bool, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}
