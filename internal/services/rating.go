package services

import (
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

type VoteStatus string

const (
	VoteCreated VoteStatus = "created"
	VoteUpdated VoteStatus = "updated"
	VoteDeleted VoteStatus = "deleted"
)

// RatingService is the vote ledger. At most one Rating row exists per
// (post, address) pair; repeating the same value retracts the vote,
// sending a different value overwrites it.
type RatingService struct {
	db *gorm.DB
}

func NewRatingService(conn *gorm.DB) *RatingService {
	return &RatingService{db: conn}
}

// CastVote runs the toggle state machine for one (post, address) pair and
// returns the freshly recomputed rating sum for the post. The lookup-then-
// write sequence races against a concurrent first vote from the same
// address; the unique index on (post_id, ip_address) turns that race into a
// duplicate-key error, which is recovered by re-running against the row the
// other request created.
func (s *RatingService) CastVote(postID uint, addr string, userID *uint, value int) (VoteStatus, int, error) {
	status, err := s.castVote(postID, addr, userID, value)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		status, err = s.castVote(postID, addr, userID, value)
	}
	if err != nil {
		return "", 0, err
	}
	sum, err := s.SumRating(postID)
	if err != nil {
		return "", 0, err
	}
	return status, sum, nil
}

func (s *RatingService) castVote(postID uint, addr string, userID *uint, value int) (VoteStatus, error) {
	var rating models.Rating
	err := s.db.Where("post_id = ? AND ip_address = ?", postID, addr).First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rating = models.Rating{
			PostID:    postID,
			IPAddress: addr,
			UserID:    userID,
			Value:     value,
		}
		if err := s.db.Create(&rating).Error; err != nil {
			return "", err
		}
		return VoteCreated, nil
	}
	if err != nil {
		return "", err
	}

	if rating.Value == value {
		// Same value twice in a row retracts the vote
		if err := s.db.Delete(&models.Rating{}, rating.ID).Error; err != nil {
			return "", err
		}
		return VoteDeleted, nil
	}

	updates := map[string]interface{}{"value": value, "user_id": userID}
	if err := s.db.Model(&models.Rating{}).Where("id = ?", rating.ID).Updates(updates).Error; err != nil {
		return "", err
	}
	return VoteUpdated, nil
}

// SumRating recomputes the aggregate from the ledger rows. Never cached.
func (s *RatingService) SumRating(postID uint) (int, error) {
	var sum int64
	err := s.db.Model(&models.Rating{}).
		Where("post_id = ?", postID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&sum).Error
	return int(sum), err
}
