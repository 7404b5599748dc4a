package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"main/model"
	"main/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// RecommendationService stores and exposes AIRecommendation records. The
// content itself comes from an external producer posting through the
// REST surface; nothing here generates suggestions.
type RecommendationService struct {
	RecommendationRepo *repository.RecommendationRepo
}

func NewRecommendationService(client *mongo.Client) *RecommendationService {
	return &RecommendationService{
		RecommendationRepo: repository.GetRecommendationRepo(client),
	}
}

type RecommendationInput struct {
	UserID   string
	Type     string
	Content  string
	Priority string
}

func (s *RecommendationService) CreateRecommendation(ctx context.Context, input RecommendationInput) (*model.AIRecommendation, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: recommendation content is required", ErrValidation)
	}

	rec := &model.AIRecommendation{
		RecommendationID:   uuid.New().String(),
		UserID:             input.UserID,
		RecommendationType: input.Type,
		Content:            content,
		Priority:           defaultString(input.Priority, "medium"),
		CreatedAt:          time.Now(),
	}
	if err := s.RecommendationRepo.AddRecommendation(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RecommendationService) ListRecommendations(ctx context.Context, userID string) ([]*model.AIRecommendation, error) {
	return s.RecommendationRepo.GetUserRecommendations(ctx, userID, false)
}

func (s *RecommendationService) ApplyRecommendation(ctx context.Context, recommendationID string) error {
	matched, err := s.RecommendationRepo.MarkApplied(ctx, recommendationID)
	if err != nil {
		return err
	}
	if matched == 0 {
		return fmt.Errorf("%w: recommendation %s", ErrNotFound, recommendationID)
	}
	return nil
}

func (s *RecommendationService) DismissRecommendation(ctx context.Context, recommendationID string) error {
	matched, err := s.RecommendationRepo.MarkDismissed(ctx, recommendationID)
	if err != nil {
		return err
	}
	if matched == 0 {
		return fmt.Errorf("%w: recommendation %s", ErrNotFound, recommendationID)
	}
	return nil
}
