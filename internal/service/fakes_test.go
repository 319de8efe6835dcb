package service

import (
	"fmt"
	"sort"

	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/model"
	"github.com/kvizarena/api/internal/repository"
)

// In-memory repository fakes. They enforce the same uniqueness and
// compare-and-swap rules as the real implementations so the services can
// be exercised without a database.

type fakeQuizRepo struct {
	quizzes   map[uint]*model.Quiz
	links     map[uint][]*model.QuizQuestion
	questions *fakeQuestionRepo
	nextID    uint
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{
		quizzes:   make(map[uint]*model.Quiz),
		links:     make(map[uint][]*model.QuizQuestion),
		questions: newFakeQuestionRepo(),
		nextID:    1,
	}
}

func (r *fakeQuizRepo) Create(quiz *model.Quiz) error {
	for _, existing := range r.quizzes {
		if existing.Name == quiz.Name {
			return apperr.Conflict("quiz with this name already exists")
		}
	}
	quiz.ID = r.nextID
	r.nextID++
	r.quizzes[quiz.ID] = quiz
	return nil
}

func (r *fakeQuizRepo) FindByID(id uint) (*model.Quiz, error) {
	quiz, ok := r.quizzes[id]
	if !ok {
		return nil, apperr.NotFound("quiz not found")
	}
	copied := *quiz
	return &copied, nil
}

func (r *fakeQuizRepo) FindByName(name string) (*model.Quiz, error) {
	for _, quiz := range r.quizzes {
		if quiz.Name == name {
			copied := *quiz
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("quiz not found")
}

func (r *fakeQuizRepo) FindAllActiveWithQuestionCount() ([]repository.QuizWithCount, error) {
	var out []repository.QuizWithCount
	for _, quiz := range r.quizzes {
		if !quiz.IsActive {
			continue
		}
		out = append(out, repository.QuizWithCount{Quiz: *quiz, QuestionCount: len(r.links[quiz.ID])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeQuizRepo) Delete(id uint) error {
	if _, ok := r.quizzes[id]; !ok {
		return apperr.NotFound("quiz not found")
	}
	delete(r.quizzes, id)
	delete(r.links, id)
	return nil
}

func (r *fakeQuizRepo) LinkQuestion(link *model.QuizQuestion) error {
	for _, existing := range r.links[link.QuizID] {
		if existing.QuestionID == link.QuestionID {
			return apperr.Conflict("question is already linked to this quiz")
		}
	}
	r.links[link.QuizID] = append(r.links[link.QuizID], link)
	return nil
}

func (r *fakeQuizRepo) QuestionAt(quizID uint, position int) (*model.QuizQuestion, error) {
	for _, link := range r.links[quizID] {
		if link.Position == position {
			copied := *link
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("no question at this position")
}

func (r *fakeQuizRepo) CountQuestions(quizID uint) (int, error) {
	return len(r.links[quizID]), nil
}

func (r *fakeQuizRepo) Transaction(fn func(repository.QuizRepository, repository.QuestionRepository) error) error {
	return fn(r, r.questions)
}

type fakeQuestionRepo struct {
	questions map[uint]*model.Question
	nextID    uint
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[uint]*model.Question), nextID: 1}
}

func (r *fakeQuestionRepo) Create(question *model.Question) error {
	for _, existing := range r.questions {
		if existing.Text == question.Text {
			return apperr.Conflict("question with this text already exists")
		}
	}
	question.ID = r.nextID
	r.nextID++
	copied := *question
	r.questions[question.ID] = &copied
	return nil
}

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	question, ok := r.questions[id]
	if !ok {
		return nil, apperr.NotFound("question not found")
	}
	copied := *question
	return &copied, nil
}

func (r *fakeQuestionRepo) FindByText(text string) (*model.Question, error) {
	for _, question := range r.questions {
		if question.Text == text {
			copied := *question
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("question not found")
}

type fakeSessionRepo struct {
	sessions map[string]*model.GameSession
	// beforeAdvance runs between the service's read and its CAS write,
	// standing in for a concurrent submission.
	beforeAdvance func()
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.GameSession)}
}

func (r *fakeSessionRepo) Create(session *model.GameSession) error {
	if _, ok := r.sessions[session.SessionID]; ok {
		return apperr.Conflict("session already exists")
	}
	copied := *session
	r.sessions[session.SessionID] = &copied
	return nil
}

func (r *fakeSessionRepo) FindByID(sessionID string) (*model.GameSession, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, apperr.NotFound("session not found")
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) Advance(sessionID string, expectedIndex int, adv repository.SessionAdvance) error {
	if r.beforeAdvance != nil {
		r.beforeAdvance()
	}
	session, ok := r.sessions[sessionID]
	if !ok || session.CurrentIndex != expectedIndex || !session.IsActive {
		return apperr.Conflict("session advanced concurrently")
	}
	session.Score = adv.Score
	session.CurrentIndex = adv.NewIndex
	session.LastQuestionAt = adv.LastQuestionAt
	session.IsActive = adv.IsActive
	session.AnswerLog = adv.AnswerLog
	return nil
}

func (r *fakeSessionRepo) Terminate(sessionID string) error {
	if session, ok := r.sessions[sessionID]; ok {
		session.IsActive = false
	}
	return nil
}

type fakeResultRepo struct {
	results   []*model.GameResult
	quizzes   map[uint]*model.Quiz // for Quiz preloads and mode lookups
	rows      []repository.LeaderboardRow
	nextID    uint
	createErr error
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{quizzes: make(map[uint]*model.Quiz), nextID: 1}
}

func (r *fakeResultRepo) Create(result *model.GameResult) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.results {
		if existing.UserID == result.UserID && existing.QuizID == result.QuizID {
			return apperr.Conflict("result already exists for this user and quiz")
		}
	}
	result.ID = r.nextID
	r.nextID++
	copied := *result
	r.results = append(r.results, &copied)
	return nil
}

func (r *fakeResultRepo) FindByUserAndQuiz(userID, quizID uint) (*model.GameResult, error) {
	for _, result := range r.results {
		if result.UserID == userID && result.QuizID == quizID {
			copied := *result
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("result not found")
}

func (r *fakeResultRepo) DeleteByUserAndQuiz(userID, quizID uint) (int64, error) {
	var kept []*model.GameResult
	var deleted int64
	for _, result := range r.results {
		if result.UserID == userID && result.QuizID == quizID {
			deleted++
			continue
		}
		kept = append(kept, result)
	}
	r.results = kept
	return deleted, nil
}

func (r *fakeResultRepo) ScoresByQuiz(quizID uint) ([]int, error) {
	var scores []int
	for _, result := range r.results {
		if result.QuizID == quizID {
			scores = append(scores, result.Score)
		}
	}
	return scores, nil
}

func (r *fakeResultRepo) FindAllByUser(userID uint) ([]model.GameResult, error) {
	var out []model.GameResult
	for _, result := range r.results {
		if result.UserID != userID {
			continue
		}
		copied := *result
		if quiz, ok := r.quizzes[result.QuizID]; ok {
			copied.Quiz = *quiz
		}
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (r *fakeResultRepo) CountByUser(userID uint) (int64, error) {
	var count int64
	for _, result := range r.results {
		if result.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeResultRepo) CountScheduledByUser(userID uint) (int64, error) {
	var count int64
	for _, result := range r.results {
		if result.UserID != userID {
			continue
		}
		if quiz, ok := r.quizzes[result.QuizID]; ok && quiz.Mode == model.QuizModeScheduled {
			count++
		}
	}
	return count, nil
}

func (r *fakeResultRepo) GlobalLeaderboard(topN int) ([]repository.LeaderboardRow, error) {
	if topN < len(r.rows) {
		return r.rows[:topN], nil
	}
	return r.rows, nil
}

func (r *fakeResultRepo) Transaction(fn func(repository.ResultRepository) error) error {
	return fn(r)
}

type fakeAchievementRepo struct {
	definitions []model.Achievement
	grants      []model.UserAchievement
	grantErr    error
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{}
}

func (r *fakeAchievementRepo) Seed(achievements []model.Achievement) error {
	r.definitions = append(r.definitions, achievements...)
	return nil
}

func (r *fakeAchievementRepo) GrantedIDs(userID uint) (map[string]bool, error) {
	granted := make(map[string]bool)
	for _, grant := range r.grants {
		if grant.UserID == userID {
			granted[grant.AchievementID] = true
		}
	}
	return granted, nil
}

func (r *fakeAchievementRepo) GrantAll(grants []model.UserAchievement) error {
	if r.grantErr != nil {
		return r.grantErr
	}
	for _, grant := range grants {
		for _, existing := range r.grants {
			if existing.UserID == grant.UserID && existing.AchievementID == grant.AchievementID {
				return apperr.Conflict(fmt.Sprintf("achievement %s already granted", grant.AchievementID))
			}
		}
	}
	r.grants = append(r.grants, grants...)
	return nil
}

func (r *fakeAchievementRepo) FindAllByUser(userID uint) ([]model.UserAchievement, error) {
	var out []model.UserAchievement
	for _, grant := range r.grants {
		if grant.UserID != userID {
			continue
		}
		copied := grant
		for _, def := range r.definitions {
			if def.ID == grant.AchievementID {
				copied.Achievement = def
				break
			}
		}
		out = append(out, copied)
	}
	return out, nil
}

type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByExternalID(externalID string) (*model.User, error) {
	for _, user := range r.users {
		if user.ExternalID != nil && *user.ExternalID == externalID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (r *fakeUserRepo) FindDevByName(name string) (*model.User, error) {
	for _, user := range r.users {
		if user.Provider == model.ProviderDev && user.Name == name {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}
