package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/jinzhu/copier"
	"github.com/kvizarena/api/internal/cache"
	"github.com/kvizarena/api/internal/dto"
	"github.com/kvizarena/api/internal/repository"
	"github.com/rs/zerolog/log"
)

// topicUncategorized buckets answer-log entries whose question has no topic.
const topicUncategorized = "uncategorized"

// StatsService serves a user's own history and the global leaderboard.
type StatsService interface {
	MyStats(userID uint) (*dto.MyStatsDTO, error)
	GlobalLeaderboard(ctx context.Context) ([]dto.LeaderboardEntryDTO, error)
}

type statsService struct {
	resultRepo       repository.ResultRepository
	achievementRepo  repository.AchievementRepository
	leaderboardCache *cache.LeaderboardCache
	leaderboardTopN  int
}

func NewStatsService(
	resultRepo repository.ResultRepository,
	achievementRepo repository.AchievementRepository,
	leaderboardCache *cache.LeaderboardCache,
	leaderboardTopN int,
) StatsService {
	return &statsService{
		resultRepo:       resultRepo,
		achievementRepo:  achievementRepo,
		leaderboardCache: leaderboardCache,
		leaderboardTopN:  leaderboardTopN,
	}
}

func (s *statsService) MyStats(userID uint) (*dto.MyStatsDTO, error) {
	results, err := s.resultRepo.FindAllByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("MyStats: failed to load results")
		return nil, fmt.Errorf("error fetching results: %w", err)
	}

	stats := &dto.MyStatsDTO{
		Results:      make([]dto.ResultSummaryDTO, 0, len(results)),
		TopicStats:   []dto.TopicAccuracyDTO{},
		Achievements: []dto.AchievementDTO{},
	}

	type topicCounter struct{ total, correct int }
	topics := make(map[string]*topicCounter)

	for _, res := range results {
		stats.Results = append(stats.Results, dto.ResultSummaryDTO{
			QuizID:         res.QuizID,
			QuizName:       res.Quiz.Name,
			Score:          res.Score,
			TotalQuestions: res.TotalQuestions,
			Percentile:     res.Percentile,
			CompletedAt:    res.CompletedAt,
		})
		for _, entry := range res.AnswerLog {
			topic := entry.Topic
			if topic == "" {
				topic = topicUncategorized
			}
			counter, ok := topics[topic]
			if !ok {
				counter = &topicCounter{}
				topics[topic] = counter
			}
			counter.total++
			if entry.IsCorrect {
				counter.correct++
			}
		}
	}

	for topic, counter := range topics {
		stats.TopicStats = append(stats.TopicStats, dto.TopicAccuracyDTO{
			Topic:          topic,
			TotalAnswers:   counter.total,
			CorrectAnswers: counter.correct,
			AccuracyPct:    100.0 * float64(counter.correct) / float64(counter.total),
		})
	}
	sort.Slice(stats.TopicStats, func(i, j int) bool {
		return stats.TopicStats[i].Topic < stats.TopicStats[j].Topic
	})

	grants, err := s.achievementRepo.FindAllByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("MyStats: failed to load achievements")
		return nil, fmt.Errorf("error fetching achievements: %w", err)
	}
	for _, grant := range grants {
		var achDTO dto.AchievementDTO
		if err := copier.Copy(&achDTO, &grant.Achievement); err != nil {
			log.Error().Err(err).Str("achievementID", grant.AchievementID).Msg("MyStats: failed to map achievement")
			continue
		}
		achDTO.AwardedAt = grant.AwardedAt
		stats.Achievements = append(stats.Achievements, achDTO)
	}

	return stats, nil
}

func (s *statsService) GlobalLeaderboard(ctx context.Context) ([]dto.LeaderboardEntryDTO, error) {
	if entries, ok := s.leaderboardCache.Get(ctx); ok {
		return entries, nil
	}

	rows, err := s.resultRepo.GlobalLeaderboard(s.leaderboardTopN)
	if err != nil {
		log.Error().Err(err).Msg("GlobalLeaderboard: failed to aggregate results")
		return nil, fmt.Errorf("error computing leaderboard: %w", err)
	}

	entries := make([]dto.LeaderboardEntryDTO, 0, len(rows))
	for _, row := range rows {
		var entry dto.LeaderboardEntryDTO
		if err := copier.Copy(&entry, &row); err != nil {
			return nil, fmt.Errorf("error preparing leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	s.leaderboardCache.Set(ctx, entries)
	return entries, nil
}
