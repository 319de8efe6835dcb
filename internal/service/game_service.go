package service

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/dto"
	"github.com/kvizarena/api/internal/model"
	"github.com/kvizarena/api/internal/repository"
	"github.com/rs/zerolog/log"
)

// Gameplay feedback labels. "Time's up!" is deliberately distinct from
// "Incorrect": both score zero, but the client presents them differently.
const (
	FeedbackCorrect   = "Correct!"
	FeedbackIncorrect = "Incorrect"
	FeedbackTimeUp    = "Time's up!"
)

// GameService is the session engine: it creates play-throughs, enforces
// time limits, computes correctness and advances the per-session pointer.
// All scoring decisions are made here, server-side; the client only ever
// echoes answer text back.
type GameService interface {
	StartGame(userID, quizID uint) (*dto.StartGameResponse, error)
	SubmitAnswer(userID uint, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
}

type gameService struct {
	quizRepo       repository.QuizRepository
	sessionRepo    repository.SessionRepository
	resultRepo     repository.ResultRepository
	resultSvc      ResultService
	achievementSvc AchievementService
}

func NewGameService(
	quizRepo repository.QuizRepository,
	sessionRepo repository.SessionRepository,
	resultRepo repository.ResultRepository,
	resultSvc ResultService,
	achievementSvc AchievementService,
) GameService {
	return &gameService{
		quizRepo:       quizRepo,
		sessionRepo:    sessionRepo,
		resultRepo:     resultRepo,
		resultSvc:      resultSvc,
		achievementSvc: achievementSvc,
	}
}

// shuffledAnswers returns the question's four candidate texts in a fresh
// random order. The set of texts is always the same; only the order varies
// between serves.
func shuffledAnswers(question *model.Question) []dto.AnswerOption {
	texts := question.AllAnswers()
	rand.Shuffle(len(texts), func(i, j int) {
		texts[i], texts[j] = texts[j], texts[i]
	})
	answers := make([]dto.AnswerOption, len(texts))
	for i, t := range texts {
		answers[i] = dto.AnswerOption{Text: t}
	}
	return answers
}

func (s *gameService) StartGame(userID, quizID uint) (*dto.StartGameResponse, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	if !quiz.IsActive {
		return nil, apperr.NotAvailable("This quiz is not currently available.")
	}

	if quiz.IsScheduled() {
		startTime := quiz.StartTimeUTC()
		if startTime == nil {
			return nil, apperr.Internal("this scheduled quiz has no start time set", nil)
		}
		now := time.Now().UTC()
		if now.Before(*startTime) {
			return nil, apperr.NotYetOpen("Quiz has not started yet.").
				WithDetail("status", "scheduled").
				WithDetail("starts_in_seconds", int(startTime.Sub(now).Seconds())).
				WithDetail("start_time_utc", startTime.Format(time.RFC3339))
		}
	}

	if !quiz.AllowRetakes {
		prior, findErr := s.resultRepo.FindByUserAndQuiz(userID, quizID)
		if findErr == nil {
			return nil, apperr.AlreadyCompleted("You have already completed this quiz.").
				WithDetail("final_score", prior.Score).
				WithDetail("total_questions", prior.TotalQuestions)
		}
		if apperr.KindOf(findErr) != apperr.KindNotFound {
			log.Error().Err(findErr).Uint("userID", userID).Uint("quizID", quizID).Msg("StartGame: failed to check for prior result")
			return nil, apperr.Internal("could not start game", findErr)
		}
	}

	firstLink, err := s.quizRepo.QuestionAt(quizID, 1)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.NotFound("Quiz has no questions.")
		}
		return nil, err
	}

	totalQuestions, err := s.quizRepo.CountQuestions(quizID)
	if err != nil {
		return nil, apperr.Internal("could not start game", err)
	}

	session := &model.GameSession{
		SessionID:      uuid.NewString(),
		UserID:         userID,
		QuizID:         quizID,
		Score:          0,
		CurrentIndex:   0,
		LastQuestionAt: time.Now().Unix(),
		IsActive:       true,
		AnswerLog:      model.AnswerLog{},
	}
	if err := s.sessionRepo.Create(session); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("StartGame: failed to create session")
		return nil, apperr.Internal("could not start game", err)
	}

	log.Info().Str("sessionID", session.SessionID).Uint("userID", userID).Uint("quizID", quizID).Msg("Game session started")

	return &dto.StartGameResponse{
		SessionID:      session.SessionID,
		QuizName:       quiz.Name,
		TimeLimit:      quiz.TimeLimitPerQuestion,
		TotalQuestions: totalQuestions,
		Question: dto.QuestionView{
			Number:  1,
			Text:    firstLink.Question.Text,
			Answers: shuffledAnswers(&firstLink.Question),
		},
	}, nil
}

func (s *gameService) SubmitAnswer(userID uint, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	session, err := s.sessionRepo.FindByID(req.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		// Terminal sessions reject every further submission the same way.
		return nil, apperr.NotFound("Invalid or expired session")
	}
	if session.UserID != userID {
		// Ownership mismatch is a hard failure, kept distinct from
		// not-found so session sharing is visible for what it is.
		return nil, apperr.Forbidden("This session belongs to another user")
	}

	quiz := &session.Quiz

	currentLink, err := s.quizRepo.QuestionAt(session.QuizID, session.CurrentIndex+1)
	if err != nil {
		// The catalog mutated under a running session. Fatal for this
		// session; never silently recovered.
		if termErr := s.sessionRepo.Terminate(session.SessionID); termErr != nil {
			log.Error().Err(termErr).Str("sessionID", session.SessionID).Msg("SubmitAnswer: failed to terminate broken session")
		}
		log.Error().Err(err).Str("sessionID", session.SessionID).Int("pointer", session.CurrentIndex).Msg("SubmitAnswer: question sequence error")
		return nil, apperr.SequencingFatal("Question sequence error or quiz finished")
	}
	question := &currentLink.Question

	now := time.Now()
	elapsed := now.Unix() - session.LastQuestionAt

	isCorrect := false
	var feedback string
	score := session.Score

	if elapsed > int64(quiz.TimeLimitPerQuestion) {
		// Lazy timeout: evaluated on submission, scored as wrong whatever
		// the text says.
		feedback = FeedbackTimeUp
	} else if req.AnswerText == question.CorrectAnswer {
		isCorrect = true
		feedback = FeedbackCorrect
		score++
	} else {
		feedback = FeedbackIncorrect
	}

	entry := model.AnswerLogEntry{
		QuestionText:  question.Text,
		YourAnswer:    req.AnswerText,
		CorrectAnswer: question.CorrectAnswer,
		IsCorrect:     isCorrect,
		Feedback:      feedback,
		SourceURL:     question.SourceURL,
		Topic:         question.Topic,
	}
	newLog := make(model.AnswerLog, 0, len(session.AnswerLog)+1)
	newLog = append(newLog, session.AnswerLog...)
	newLog = append(newLog, entry)

	totalQuestions, err := s.quizRepo.CountQuestions(session.QuizID)
	if err != nil {
		return nil, apperr.Internal("could not process answer", err)
	}

	newIndex := session.CurrentIndex + 1
	finished := newIndex >= totalQuestions

	// Compare-and-swap on the expected pointer: a concurrent double-submit
	// loses the race and gets a conflict instead of corrupting the log.
	advErr := s.sessionRepo.Advance(session.SessionID, session.CurrentIndex, repository.SessionAdvance{
		Score:          score,
		NewIndex:       newIndex,
		LastQuestionAt: now.Unix(),
		IsActive:       !finished,
		AnswerLog:      newLog,
	})
	if advErr != nil {
		if apperr.KindOf(advErr) == apperr.KindConflict {
			log.Warn().Str("sessionID", session.SessionID).Msg("SubmitAnswer: concurrent submission detected")
			return nil, advErr
		}
		return nil, apperr.Internal("could not process answer", advErr)
	}

	resp := &dto.SubmitAnswerResponse{
		Feedback:       feedback,
		IsCorrect:      isCorrect,
		CorrectAnswer:  question.CorrectAnswer,
		CurrentScore:   score,
		TotalQuestions: totalQuestions,
		QuizFinished:   finished,
	}

	if !finished {
		nextLink, nextErr := s.quizRepo.QuestionAt(session.QuizID, newIndex+1)
		if nextErr != nil {
			if termErr := s.sessionRepo.Terminate(session.SessionID); termErr != nil {
				log.Error().Err(termErr).Str("sessionID", session.SessionID).Msg("SubmitAnswer: failed to terminate broken session")
			}
			log.Error().Err(nextErr).Str("sessionID", session.SessionID).Msg("SubmitAnswer: next question missing")
			return nil, apperr.SequencingFatal("Question sequence error or quiz finished")
		}
		resp.NextQuestion = &dto.QuestionView{
			Number:  newIndex + 1,
			Text:    nextLink.Question.Text,
			Answers: shuffledAnswers(&nextLink.Question),
		}
		return resp, nil
	}

	// Terminal transition: persist the result with its ranking snapshot.
	// The session is already inactive; a failed save is reported, never
	// rolled back to active.
	result, finErr := s.resultSvc.FinalizeSession(userID, quiz, score, totalQuestions, newLog)
	if finErr != nil {
		log.Error().Err(finErr).Str("sessionID", session.SessionID).Msg("SubmitAnswer: failed to persist result")
		return nil, apperr.Internal("Could not save result", finErr)
	}

	// Best-effort side step; must never fail the completion response.
	s.achievementSvc.CheckAndAward(userID, result)

	resp.FinalScore = &score
	resp.ResultsSummary = newLog
	resp.RankingSummary = &dto.RankingSummary{
		Percentile:    result.Percentile,
		PlayersBetter: result.PlayersBetter,
		PlayersWorse:  result.PlayersWorse,
		PlayersSame:   result.PlayersSame,
		TotalPlayers:  result.TotalPlayers,
	}
	return resp, nil
}
