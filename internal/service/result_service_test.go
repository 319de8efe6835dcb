package service

import (
	"testing"

	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/model"
)

func TestFinalizeFirstResultGetsFullPercentile(t *testing.T) {
	resultRepo := newFakeResultRepo()
	svc := NewResultService(resultRepo)
	quiz := &model.Quiz{ID: 1, Name: "History"}

	result, err := svc.FinalizeSession(7, quiz, 0, 5, model.AnswerLog{})
	if err != nil {
		t.Fatalf("FinalizeSession: %v", err)
	}
	if result.Percentile != 100.0 {
		t.Errorf("percentile = %v, want 100 for the first result even with score 0", result.Percentile)
	}
	if result.TotalPlayers != 1 || result.PlayersBetter != 0 || result.PlayersWorse != 0 || result.PlayersSame != 0 {
		t.Errorf("snapshot = %+v, want a lone player", result)
	}
}

func TestFinalizeSnapshotExcludesOwnResult(t *testing.T) {
	resultRepo := newFakeResultRepo()
	svc := NewResultService(resultRepo)
	quiz := &model.Quiz{ID: 1, Name: "History"}

	// Prior results: scores 3 and 5 from other players.
	resultRepo.results = append(resultRepo.results,
		&model.GameResult{UserID: 1, QuizID: 1, Score: 3, TotalQuestions: 5},
		&model.GameResult{UserID: 2, QuizID: 1, Score: 5, TotalQuestions: 5},
	)

	result, err := svc.FinalizeSession(7, quiz, 5, 5, model.AnswerLog{})
	if err != nil {
		t.Fatalf("FinalizeSession: %v", err)
	}
	// With prior scores [3, 5] and a new 5: one worse, one tied, none
	// better; percentile = 100 * 1/2.
	if result.PlayersWorse != 1 || result.PlayersSame != 1 || result.PlayersBetter != 0 {
		t.Errorf("snapshot = worse=%d same=%d better=%d, want 1/1/0", result.PlayersWorse, result.PlayersSame, result.PlayersBetter)
	}
	if result.TotalPlayers != 3 {
		t.Errorf("total players = %d, want 3", result.TotalPlayers)
	}
	if result.Percentile != 50.0 {
		t.Errorf("percentile = %v, want 50", result.Percentile)
	}
}

func TestFinalizeRetakeReplacesPriorResult(t *testing.T) {
	resultRepo := newFakeResultRepo()
	svc := NewResultService(resultRepo)
	quiz := &model.Quiz{ID: 1, Name: "History", AllowRetakes: true}

	resultRepo.results = append(resultRepo.results,
		&model.GameResult{UserID: 7, QuizID: 1, Score: 1, TotalQuestions: 5},
		&model.GameResult{UserID: 2, QuizID: 1, Score: 4, TotalQuestions: 5},
	)

	result, err := svc.FinalizeSession(7, quiz, 5, 5, model.AnswerLog{})
	if err != nil {
		t.Fatalf("FinalizeSession: %v", err)
	}
	// The prior own result is deleted before the snapshot, so only the
	// other player's 4 is counted.
	if result.TotalPlayers != 2 || result.PlayersWorse != 1 {
		t.Errorf("snapshot = %+v, want the replaced result excluded", result)
	}
	if result.Percentile != 100.0 {
		t.Errorf("percentile = %v, want 100", result.Percentile)
	}

	saved, err := resultRepo.FindByUserAndQuiz(7, 1)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if saved.Score != 5 {
		t.Errorf("stored score = %d, want the retake's 5", saved.Score)
	}
	count, _ := resultRepo.CountByUser(7)
	if count != 1 {
		t.Errorf("results for user = %d, want exactly 1 after replacement", count)
	}
}

func TestFinalizeDuplicateResultConflicts(t *testing.T) {
	resultRepo := newFakeResultRepo()
	svc := NewResultService(resultRepo)
	quiz := &model.Quiz{ID: 1, Name: "History"} // no retakes

	resultRepo.results = append(resultRepo.results,
		&model.GameResult{UserID: 7, QuizID: 1, Score: 2, TotalQuestions: 5},
	)

	_, err := svc.FinalizeSession(7, quiz, 5, 5, model.AnswerLog{})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}
