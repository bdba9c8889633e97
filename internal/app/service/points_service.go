package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"
	"workshop_hub/internal/domain/repository"
	"workshop_hub/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type PointsService struct {
	pointsRepo repository.PointsRepository
	rdb        *redis.Client
}

func NewPointsService(pointsRepo repository.PointsRepository, rdb *redis.Client) *PointsService {
	return &PointsService{pointsRepo: pointsRepo, rdb: rdb}
}

// AwardLessonPoints credits a completed lesson. Idempotency comes from the
// progress row the caller must have inserted first.
func (s *PointsService) AwardLessonPoints(ctx context.Context, userID string, points int) error {
	return s.award(ctx, userID, repository.PointsAward{Points: points, Lessons: 1})
}

// AwardChallengePoints credits a passed challenge review. There is no
// duplicate-review guard; a re-review that passes awards again.
func (s *PointsService) AwardChallengePoints(ctx context.Context, userID string, points int) error {
	return s.award(ctx, userID, repository.PointsAward{Points: points, Challenges: 1})
}

// AwardExamPoints credits a passed exam attempt. priorPasses is how many
// earlier attempts at the exam the user already passed, not counting the one
// being credited; more than one means the exam was already scored.
func (s *PointsService) AwardExamPoints(ctx context.Context, userID string, points, priorPasses int) error {
	if !examAwardEligible(priorPasses) {
		return nil
	}
	return s.award(ctx, userID, repository.PointsAward{Points: points, Exams: 1})
}

func examAwardEligible(priorPasses int) bool {
	return priorPasses <= 1
}

func (s *PointsService) award(ctx context.Context, userID string, award repository.PointsAward) error {
	if err := s.pointsRepo.Award(ctx, userID, award); err != nil {
		return err
	}
	if err := s.UpdateRankings(ctx); err != nil {
		// Points were persisted; ranks catch up on the next scoring event.
		log.Printf("points: ranking recompute failed: %v", err)
	}
	return nil
}

// UpdateRankings recomputes every scored user's rank. Rows whose position
// changed are updated and get a history entry; unchanged rows are left alone
// so previous_rank keeps pointing at the last different position.
func (s *PointsService) UpdateRankings(ctx context.Context) error {
	rankings, err := s.pointsRepo.Rankings(ctx)
	if err != nil {
		return err
	}
	for _, r := range rankings {
		if r.CurrentRank == r.PreviousRank {
			continue
		}
		if err := s.pointsRepo.UpdateRanks(ctx, r.UserID, r.CurrentRank, r.PreviousRank); err != nil {
			return err
		}
		history := &model.LeaderboardHistory{
			ID:           uuid.NewString(),
			UserID:       r.UserID,
			RankPosition: r.CurrentRank,
			TotalPoints:  r.TotalPoints,
		}
		if err := s.pointsRepo.InsertHistory(ctx, history); err != nil {
			return err
		}
	}
	s.invalidateCache(ctx)
	return nil
}

// rankChange computes movement relative to the previous recompute. A zero
// previous rank means the user just entered the board.
func rankChange(currentRank, previousRank int) model.RankInfo {
	info := model.RankInfo{
		Rank:         currentRank,
		PreviousRank: previousRank,
	}
	switch {
	case previousRank == 0:
		info.Direction = model.RankNew
	case currentRank < previousRank:
		info.Direction = model.RankUp
		info.Change = previousRank - currentRank
	case currentRank > previousRank:
		info.Direction = model.RankDown
		info.Change = currentRank - previousRank
	default:
		info.Direction = model.RankSame
	}
	return info
}

// Leaderboard returns the top entries. The default-limit page is served from
// the Redis cache when fresh; cache failures fall through to the DB.
func (s *PointsService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	defaultLimit := config.AppConfig.LeaderboardLimit
	if limit <= 0 || limit > defaultLimit {
		limit = defaultLimit
	}
	cacheable := limit == defaultLimit

	if cacheable && s.rdb != nil {
		cached, err := s.rdb.Get(ctx, config.AppConfig.LeaderboardCacheKey).Result()
		if err == nil {
			var entries []model.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("points: leaderboard cache read failed: %v", err)
		}
	}

	rows, err := s.pointsRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		info := rankChange(row.CurrentRank, row.PreviousRank)
		info.TotalPoints = row.TotalPoints
		entries = append(entries, model.LeaderboardEntry{UserPoints: row, RankInfo: info})
	}

	if cacheable && s.rdb != nil {
		if payload, err := json.Marshal(entries); err == nil {
			err := s.rdb.Set(ctx, config.AppConfig.LeaderboardCacheKey, payload,
				config.AppConfig.LeaderboardCacheTTL).Err()
			if err != nil {
				log.Printf("points: leaderboard cache write failed: %v", err)
			}
		}
	}
	return entries, nil
}

// UserRank returns a user's aggregate with movement info. Users with no
// scoring events yet get a zeroed entry rather than a 404.
func (s *PointsService) UserRank(ctx context.Context, userID string) (*model.LeaderboardEntry, error) {
	points, err := s.pointsRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &model.LeaderboardEntry{
				UserPoints: model.UserPoints{UserID: userID},
				RankInfo:   model.RankInfo{Direction: model.RankSame},
			}, nil
		}
		return nil, err
	}
	info := rankChange(points.CurrentRank, points.PreviousRank)
	info.TotalPoints = points.TotalPoints
	return &model.LeaderboardEntry{UserPoints: *points, RankInfo: info}, nil
}

// TotalPoints returns the user's running total, zero when unscored.
func (s *PointsService) TotalPoints(ctx context.Context, userID string) (int, error) {
	points, err := s.pointsRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return points.TotalPoints, nil
}

func (s *PointsService) WorkshopLeaderboard(ctx context.Context, workshopID string) ([]model.WorkshopLeaderboardEntry, error) {
	return s.pointsRepo.WorkshopLeaderboard(ctx, workshopID)
}

func (s *PointsService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.AppConfig.LeaderboardCacheKey).Err(); err != nil {
		log.Printf("points: leaderboard cache invalidation failed: %v", err)
	}
}
