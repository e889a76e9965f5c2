package service

import (
	"context"

	"libris-backend/internal/domain"
	"libris-backend/internal/repository"
)

type activityService struct {
	activityRepo repository.ActivityRepository
}

func NewActivityService(activityRepo repository.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

func (s *activityService) RecentActivity(ctx context.Context, limit int32) ([]domain.ActivityEntry, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.activityRepo.ListRecent(ctx, limit)
}
