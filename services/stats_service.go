package services

import (
	"context"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/dto"
)

// StatsService aggregates row counts for the public stats endpoint.
type StatsService struct {
	users         UserStore
	subjects      SubjectStore
	posts         PostStore
	comments      CommentStore
	subscriptions SubscriptionStore
}

func NewStatsService(users UserStore, subjects SubjectStore, posts PostStore, comments CommentStore, subscriptions SubscriptionStore) *StatsService {
	return &StatsService{users: users, subjects: subjects, posts: posts, comments: comments, subscriptions: subscriptions}
}

func (s *StatsService) Stats(ctx context.Context) (dto.StatsResponse, error) {
	var out dto.StatsResponse
	counters := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&out.Users, s.users.Count},
		{&out.Subjects, s.subjects.Count},
		{&out.Posts, s.posts.Count},
		{&out.Comments, s.comments.Count},
		{&out.Subscriptions, s.subscriptions.Count},
	}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return dto.StatsResponse{}, apperror.Internal(err)
		}
		*c.dst = n
	}
	return out, nil
}
