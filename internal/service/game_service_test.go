package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/dto"
	"github.com/kvizarena/api/internal/model"
)

type gameFixture struct {
	quizRepo        *fakeQuizRepo
	sessionRepo     *fakeSessionRepo
	resultRepo      *fakeResultRepo
	achievementRepo *fakeAchievementRepo
	game            GameService
}

func newGameFixture(t *testing.T) *gameFixture {
	t.Helper()
	quizRepo := newFakeQuizRepo()
	sessionRepo := newFakeSessionRepo()
	resultRepo := newFakeResultRepo()
	achievementRepo := newFakeAchievementRepo()

	resultSvc := NewResultService(resultRepo)
	achievementSvc := NewAchievementService(achievementRepo, resultRepo, DefaultAchievementCatalog())

	return &gameFixture{
		quizRepo:        quizRepo,
		sessionRepo:     sessionRepo,
		resultRepo:      resultRepo,
		achievementRepo: achievementRepo,
		game:            NewGameService(quizRepo, sessionRepo, resultRepo, resultSvc, achievementSvc),
	}
}

// seedMathQuiz creates an active two-question quiz and registers it with
// the result repo so scheduled-mode lookups work.
func (f *gameFixture) seedMathQuiz(t *testing.T) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		Name:                 "Math Whiz",
		TimeLimitPerQuestion: 15,
		IsActive:             true,
		Mode:                 model.QuizModeOnDemand,
	}
	if err := f.quizRepo.Create(quiz); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	questions := []model.Question{
		{ID: 101, Text: "What is 2+2?", CorrectAnswer: "4", WrongAnswer1: "3", WrongAnswer2: "5", WrongAnswer3: "22", Topic: "math"},
		{ID: 102, Text: "What is 3*3?", CorrectAnswer: "9", WrongAnswer1: "6", WrongAnswer2: "8", WrongAnswer3: "33", Topic: "math"},
	}
	for i, q := range questions {
		link := &model.QuizQuestion{QuizID: quiz.ID, QuestionID: q.ID, Position: i + 1, Question: q}
		if err := f.quizRepo.LinkQuestion(link); err != nil {
			t.Fatalf("seed link: %v", err)
		}
	}
	f.resultRepo.quizzes[quiz.ID] = quiz
	return quiz
}

func answerTexts(answers []dto.AnswerOption) map[string]bool {
	set := make(map[string]bool, len(answers))
	for _, a := range answers {
		set[a.Text] = true
	}
	return set
}

func TestStartGameServesFirstQuestion(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)

	resp, err := f.game.StartGame(7, quiz.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("expected a session id")
	}
	if resp.QuizName != "Math Whiz" {
		t.Errorf("quiz name = %q, want Math Whiz", resp.QuizName)
	}
	if resp.TimeLimit != 15 {
		t.Errorf("time limit = %d, want 15", resp.TimeLimit)
	}
	if resp.TotalQuestions != 2 {
		t.Errorf("total questions = %d, want 2", resp.TotalQuestions)
	}
	if resp.Question.Number != 1 {
		t.Errorf("question number = %d, want 1", resp.Question.Number)
	}
	if resp.Question.Text != "What is 2+2?" {
		t.Errorf("question text = %q", resp.Question.Text)
	}
	want := map[string]bool{"4": true, "3": true, "5": true, "22": true}
	got := answerTexts(resp.Question.Answers)
	if len(got) != 4 {
		t.Fatalf("answer count = %d, want 4 distinct", len(got))
	}
	for text := range want {
		if !got[text] {
			t.Errorf("answers missing %q", text)
		}
	}
}

func TestStartGameShuffleKeepsAnswerSet(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)

	// Every serve must contain exactly the same four texts regardless of
	// order. Run a handful of sessions to cover several shuffles.
	want := map[string]bool{"4": true, "3": true, "5": true, "22": true}
	for i := 0; i < 20; i++ {
		resp, err := f.game.StartGame(uint(100+i), quiz.ID)
		if err != nil {
			t.Fatalf("StartGame: %v", err)
		}
		got := answerTexts(resp.Question.Answers)
		if len(got) != len(want) {
			t.Fatalf("serve %d: answer set size = %d, want %d", i, len(got), len(want))
		}
		for text := range want {
			if !got[text] {
				t.Fatalf("serve %d: answer set missing %q", i, text)
			}
		}
	}
}

func TestStartGameInactiveQuiz(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)
	f.quizRepo.quizzes[quiz.ID].IsActive = false

	_, err := f.game.StartGame(7, quiz.ID)
	if apperr.KindOf(err) != apperr.KindNotAvailable {
		t.Fatalf("err = %v, want not-available", err)
	}
	if apperr.HTTPStatus(err) != 404 {
		t.Errorf("status = %d, want 404", apperr.HTTPStatus(err))
	}
}

func TestStartGameUnknownQuiz(t *testing.T) {
	f := newGameFixture(t)

	_, err := f.game.StartGame(7, 999)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestStartGameScheduledNotYetOpen(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)
	start := time.Now().UTC().Add(90 * time.Second)
	stored := f.quizRepo.quizzes[quiz.ID]
	stored.Mode = model.QuizModeScheduled
	stored.StartTime = &start

	_, err := f.game.StartGame(7, quiz.ID)
	if apperr.KindOf(err) != apperr.KindNotYetOpen {
		t.Fatalf("err = %v, want not-yet-open", err)
	}
	if apperr.HTTPStatus(err) != 403 {
		t.Errorf("status = %d, want 403", apperr.HTTPStatus(err))
	}
	details := apperr.DetailsOf(err)
	if details["status"] != "scheduled" {
		t.Errorf("details status = %v, want scheduled", details["status"])
	}
	secs, ok := details["starts_in_seconds"].(int)
	if !ok || secs <= 0 || secs > 90 {
		t.Errorf("starts_in_seconds = %v, want in (0, 90]", details["starts_in_seconds"])
	}
	if details["start_time_utc"] != start.Format(time.RFC3339) {
		t.Errorf("start_time_utc = %v, want %s", details["start_time_utc"], start.Format(time.RFC3339))
	}
}

func TestStartGameScheduledAfterStartTime(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)
	start := time.Now().UTC().Add(-time.Minute)
	stored := f.quizRepo.quizzes[quiz.ID]
	stored.Mode = model.QuizModeScheduled
	stored.StartTime = &start

	if _, err := f.game.StartGame(7, quiz.ID); err != nil {
		t.Fatalf("StartGame after start time: %v", err)
	}
}

func TestStartGameAlreadyCompleted(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)
	f.resultRepo.results = append(f.resultRepo.results, &model.GameResult{
		UserID: 7, QuizID: quiz.ID, Score: 1, TotalQuestions: 2,
	})

	_, err := f.game.StartGame(7, quiz.ID)
	if apperr.KindOf(err) != apperr.KindAlreadyCompleted {
		t.Fatalf("err = %v, want already-completed", err)
	}
	details := apperr.DetailsOf(err)
	if details["final_score"] != 1 || details["total_questions"] != 2 {
		t.Errorf("details = %v, want final_score=1 total_questions=2", details)
	}

	// A different player is unaffected.
	if _, err := f.game.StartGame(8, quiz.ID); err != nil {
		t.Fatalf("StartGame for other user: %v", err)
	}
}

func TestStartGameRetakesAllowed(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)
	f.quizRepo.quizzes[quiz.ID].AllowRetakes = true
	f.resultRepo.results = append(f.resultRepo.results, &model.GameResult{
		UserID: 7, QuizID: quiz.ID, Score: 1, TotalQuestions: 2,
	})

	if _, err := f.game.StartGame(7, quiz.ID); err != nil {
		t.Fatalf("StartGame with retakes allowed: %v", err)
	}
}

func TestStartGameEmptyQuiz(t *testing.T) {
	f := newGameFixture(t)
	quiz := &model.Quiz{Name: "Empty", TimeLimitPerQuestion: 15, IsActive: true, Mode: model.QuizModeOnDemand}
	if err := f.quizRepo.Create(quiz); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	_, err := f.game.StartGame(7, quiz.ID)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestSubmitAnswerFullPlaythrough(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)

	start, err := f.game.StartGame(7, quiz.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	first, err := f.game.SubmitAnswer(7, dto.SubmitAnswerRequest{SessionID: start.SessionID, AnswerText: "4"})
	if err != nil {
		t.Fatalf("SubmitAnswer q1: %v", err)
	}
	if first.Feedback != FeedbackCorrect || !first.IsCorrect {
		t.Errorf("q1 feedback = %q correct = %v, want %q true", first.Feedback, first.IsCorrect, FeedbackCorrect)
	}
	if first.CurrentScore != 1 {
		t.Errorf("q1 score = %d, want 1", first.CurrentScore)
	}
	if first.QuizFinished {
		t.Error("q1 should not finish the quiz")
	}
	if first.NextQuestion == nil || first.NextQuestion.Number != 2 || first.NextQuestion.Text != "What is 3*3?" {
		t.Fatalf("q1 next question = %+v", first.NextQuestion)
	}

	second, err := f.game.SubmitAnswer(7, dto.SubmitAnswerRequest{SessionID: start.SessionID, AnswerText: "8"})
	if err != nil {
		t.Fatalf("SubmitAnswer q2: %v", err)
	}
	if second.Feedback != FeedbackIncorrect || second.IsCorrect {
		t.Errorf("q2 feedback = %q correct = %v, want %q false", second.Feedback, second.IsCorrect, FeedbackIncorrect)
	}
	if second.CorrectAnswer != "9" {
		t.Errorf("q2 correct answer = %q, want 9", second.CorrectAnswer)
	}
	if !second.QuizFinished {
		t.Fatal("q2 should finish the quiz")
	}
	if second.NextQuestion != nil {
		t.Error("finished response must not carry a next question")
	}
	if second.FinalScore == nil || *second.FinalScore != 1 {
		t.Errorf("final score = %v, want 1", second.FinalScore)
	}
	if len(second.ResultsSummary) != 2 {
		t.Fatalf("results summary length = %d, want 2", len(second.ResultsSummary))
	}
	if second.ResultsSummary[0].YourAnswer != "4" || !second.ResultsSummary[0].IsCorrect {
		t.Errorf("summary[0] = %+v", second.ResultsSummary[0])
	}
	if second.ResultsSummary[1].YourAnswer != "8" || second.ResultsSummary[1].IsCorrect {
		t.Errorf("summary[1] = %+v", second.ResultsSummary[1])
	}
	if second.RankingSummary == nil {
		t.Fatal("finished response must carry a ranking summary")
	}
	if second.RankingSummary.Percentile != 100.0 || second.RankingSummary.TotalPlayers != 1 {
		t.Errorf("ranking = %+v, want percentile 100 over 1 player", second.RankingSummary)
	}

	// The session is terminal; replays are rejected as not-found.
	_, err = f.game.SubmitAnswer(7, dto.SubmitAnswerRequest{SessionID: start.SessionID, AnswerText: "9"})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("replay err = %v, want not-found", err)
	}

	// And the result landed.
	saved, err := f.resultRepo.FindByUserAndQuiz(7, quiz.ID)
	if err != nil {
		t.Fatalf("result lookup: %v", err)
	}
	if saved.Score != 1 || saved.TotalQuestions != 2 {
		t.Errorf("saved result = %+v", saved)
	}
}

func TestSubmitAnswerTimeUp(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)

	start, err := f.game.StartGame(7, quiz.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	// Backdate the question serve past the 15 second limit.
	f.sessionRepo.sessions[start.SessionID].LastQuestionAt = time.Now().Add(-time.Minute).Unix()

	resp, err := f.game.SubmitAnswer(7, dto.SubmitAnswerRequest{SessionID: start.SessionID, AnswerText: "4"})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if resp.Feedback != FeedbackTimeUp {
		t.Errorf("feedback = %q, want %q", resp.Feedback, FeedbackTimeUp)
	}
	if resp.IsCorrect || resp.CurrentScore != 0 {
		t.Errorf("late correct text must score zero: correct=%v score=%d", resp.IsCorrect, resp.CurrentScore)
	}
	if resp.NextQuestion == nil || resp.NextQuestion.Number != 2 {
		t.Error("timeout still advances to the next question")
	}
}

func TestSubmitAnswerOwnership(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)

	start, err := f.game.StartGame(7, quiz.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	_, err = f.game.SubmitAnswer(8, dto.SubmitAnswerRequest{SessionID: start.SessionID, AnswerText: "4"})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	f := newGameFixture(t)
	f.seedMathQuiz(t)

	_, err := f.game.SubmitAnswer(7, dto.SubmitAnswerRequest{SessionID: "nope", AnswerText: "4"})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestSubmitAnswerSequencingErrorTerminatesSession(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)

	start, err := f.game.StartGame(7, quiz.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	// The catalog mutates under the running session.
	f.quizRepo.links[quiz.ID] = nil

	_, err = f.game.SubmitAnswer(7, dto.SubmitAnswerRequest{SessionID: start.SessionID, AnswerText: "4"})
	if apperr.KindOf(err) != apperr.KindSequencingFatal {
		t.Fatalf("err = %v, want sequencing-fatal", err)
	}
	if apperr.HTTPStatus(err) != 500 {
		t.Errorf("status = %d, want 500", apperr.HTTPStatus(err))
	}
	if f.sessionRepo.sessions[start.SessionID].IsActive {
		t.Error("broken session must be terminated")
	}
}

func TestSubmitAnswerConcurrentConflict(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)

	start, err := f.game.StartGame(7, quiz.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	// A rival submission advances the pointer between this call's read and
	// its compare-and-swap write.
	f.sessionRepo.beforeAdvance = func() {
		f.sessionRepo.beforeAdvance = nil
		f.sessionRepo.sessions[start.SessionID].CurrentIndex = 1
	}

	_, err = f.game.SubmitAnswer(7, dto.SubmitAnswerRequest{SessionID: start.SessionID, AnswerText: "4"})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
	// The losing submission must not have touched score or log.
	session := f.sessionRepo.sessions[start.SessionID]
	if session.Score != 0 || len(session.AnswerLog) != 0 {
		t.Errorf("lost race mutated session: score=%d log=%d", session.Score, len(session.AnswerLog))
	}
}

func TestSubmitAnswerResultSaveConflictIsInternal(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)

	start, err := f.game.StartGame(7, quiz.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if _, err := f.game.SubmitAnswer(7, dto.SubmitAnswerRequest{SessionID: start.SessionID, AnswerText: "4"}); err != nil {
		t.Fatalf("first SubmitAnswer: %v", err)
	}

	// A rival completion wins the unique (user, quiz) slot just before the
	// final save. That is a persistence failure, not a client error.
	f.resultRepo.createErr = apperr.Conflict("result already exists for this user and quiz")

	_, err = f.game.SubmitAnswer(7, dto.SubmitAnswerRequest{SessionID: start.SessionID, AnswerText: "9"})
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("err = %v, want internal", err)
	}
	if status := apperr.HTTPStatus(err); status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", status)
	}
}

func TestSubmitAnswerEmptyTextIsWrong(t *testing.T) {
	f := newGameFixture(t)
	quiz := f.seedMathQuiz(t)

	start, err := f.game.StartGame(7, quiz.ID)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	resp, err := f.game.SubmitAnswer(7, dto.SubmitAnswerRequest{SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if resp.Feedback != FeedbackIncorrect || resp.IsCorrect {
		t.Errorf("empty answer: feedback = %q correct = %v", resp.Feedback, resp.IsCorrect)
	}
}
