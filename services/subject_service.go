package services

import (
	"context"
	"errors"
	"time"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/models"
	"github.com/mddforum/mdd-api/repository"
	"github.com/mddforum/mdd-api/utils"
)

const (
	// SubjectsCacheKey holds the cached subject list.
	SubjectsCacheKey = "cache:subjects:list"
	subjectsCacheTTL = time.Hour
)

// SubjectService lists subjects and manages subscriptions.
type SubjectService struct {
	subjects      SubjectStore
	subscriptions SubscriptionStore
}

func NewSubjectService(subjects SubjectStore, subscriptions SubscriptionStore) *SubjectService {
	return &SubjectService{subjects: subjects, subscriptions: subscriptions}
}

// List returns every subject ordered by id, served from Redis when cached.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	var cached []models.Subject
	if utils.CacheGetJSON(SubjectsCacheKey, &cached) {
		return cached, nil
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	utils.CacheSetJSON(SubjectsCacheKey, subjects, subjectsCacheTTL)
	return subjects, nil
}

func (s *SubjectService) ListWithStatus(ctx context.Context, userID uint) ([]models.SubjectWithStatus, error) {
	rows, err := s.subjects.ListWithStatus(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return rows, nil
}

func (s *SubjectService) ListSubscribed(ctx context.Context, userID uint) ([]models.Subject, error) {
	subjects, err := s.subjects.ListSubscribed(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return subjects, nil
}

// Subscribe joins userID to subjectID and returns the subject.
func (s *SubjectService) Subscribe(ctx context.Context, userID, subjectID uint) (*models.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		return nil, notFoundOr(err, apperror.CodeSubjectNotFound, "Subject not found")
	}

	exists, err := s.subscriptions.Exists(ctx, userID, subjectID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, alreadySubscribed()
	}

	if err := s.subscriptions.Create(ctx, &models.Subscription{UserID: userID, SubjectID: subjectID}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, alreadySubscribed()
		}
		return nil, apperror.Internal(err)
	}
	return subject, nil
}

// Unsubscribe deletes the pair, failing with not found when it does not exist.
func (s *SubjectService) Unsubscribe(ctx context.Context, userID, subjectID uint) error {
	if err := s.subscriptions.Delete(ctx, userID, subjectID); err != nil {
		return notFoundOr(err, apperror.CodeSubscriptionNotFound, "Subscription not found")
	}
	return nil
}

func alreadySubscribed() error {
	return apperror.Conflict(apperror.CodeAlreadySubscribed, "Already subscribed to this subject")
}
