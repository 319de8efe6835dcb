package service

import (
	"github.com/kvizarena/api/internal/model"
	"github.com/kvizarena/api/internal/repository"
	"github.com/rs/zerolog/log"
)

// Badge ids are stable; grants reference them forever.
const (
	AchievementProfessor = "professor"
	AchievementWarrior   = "warrior"
	AchievementVeteran   = "veteran"
)

// AchievementCatalog is the explicit badge configuration injected at
// startup. No global mutable registry.
type AchievementCatalog struct {
	Definitions      []model.Achievement
	VeteranThreshold int
	WarriorThreshold int
}

// DefaultAchievementCatalog returns the built-in badge set.
func DefaultAchievementCatalog() AchievementCatalog {
	return AchievementCatalog{
		Definitions: []model.Achievement{
			{ID: AchievementProfessor, Name: "Professor", Description: "Get a 100% score in any quiz.", IconClass: "fa-graduation-cap"},
			{ID: AchievementWarrior, Name: "Warrior", Description: "Finish 3 scheduled quizzes.", IconClass: "fa-shield-alt"},
			{ID: AchievementVeteran, Name: "Veteran", Description: "Finish 10 quizzes of any kind.", IconClass: "fa-medal"},
		},
		VeteranThreshold: 10,
		WarriorThreshold: 3,
	}
}

// AchievementService evaluates badge conditions after a result is
// persisted. Evaluation is best-effort and idempotent: already-granted
// badges are skipped, and any internal error is logged and swallowed so it
// never reaches the player-facing completion response.
type AchievementService interface {
	CheckAndAward(userID uint, result *model.GameResult)
	SeedCatalog() error
}

type achievementService struct {
	achievementRepo repository.AchievementRepository
	resultRepo      repository.ResultRepository
	catalog         AchievementCatalog
}

func NewAchievementService(
	achievementRepo repository.AchievementRepository,
	resultRepo repository.ResultRepository,
	catalog AchievementCatalog,
) AchievementService {
	return &achievementService{
		achievementRepo: achievementRepo,
		resultRepo:      resultRepo,
		catalog:         catalog,
	}
}

func (s *achievementService) SeedCatalog() error {
	return s.achievementRepo.Seed(s.catalog.Definitions)
}

func (s *achievementService) CheckAndAward(userID uint, result *model.GameResult) {
	granted, err := s.achievementRepo.GrantedIDs(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Achievement check: failed to load granted badges")
		return
	}

	var newGrants []model.UserAchievement
	award := func(id string) {
		newGrants = append(newGrants, model.UserAchievement{UserID: userID, AchievementID: id})
		granted[id] = true
	}

	if !granted[AchievementProfessor] {
		if result.TotalQuestions > 0 && result.Score == result.TotalQuestions {
			award(AchievementProfessor)
		}
	}

	if !granted[AchievementVeteran] {
		count, countErr := s.resultRepo.CountByUser(userID)
		if countErr != nil {
			log.Error().Err(countErr).Uint("userID", userID).Msg("Achievement check: failed to count results")
			return
		}
		if count >= int64(s.catalog.VeteranThreshold) {
			award(AchievementVeteran)
		}
	}

	if !granted[AchievementWarrior] {
		count, countErr := s.resultRepo.CountScheduledByUser(userID)
		if countErr != nil {
			log.Error().Err(countErr).Uint("userID", userID).Msg("Achievement check: failed to count scheduled results")
			return
		}
		if count >= int64(s.catalog.WarriorThreshold) {
			award(AchievementWarrior)
		}
	}

	if len(newGrants) == 0 {
		return
	}
	// All or nothing; a failed commit leaves no partial grants behind.
	if err := s.achievementRepo.GrantAll(newGrants); err != nil {
		log.Error().Err(err).Uint("userID", userID).Int("grants", len(newGrants)).Msg("Achievement check: failed to commit new grants")
		return
	}
	log.Info().Uint("userID", userID).Int("grants", len(newGrants)).Msg("Awarded new achievements")
}
