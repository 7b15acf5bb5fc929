package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"quiz_tournament_backend/internal/config"
	"quiz_tournament_backend/internal/model"
	"quiz_tournament_backend/internal/service"
	"quiz_tournament_backend/internal/util"
	"quiz_tournament_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// 控制器测试只关心 HTTP 层的编解码和状态码映射，
// 仓储用最小桩实现。

type stubQuizStore struct {
	quizzes map[uint]*model.Quiz
}

func (s *stubQuizStore) Create(quiz *model.Quiz) error { return nil }

func (s *stubQuizStore) FindByID(id uint) (*model.Quiz, error) {
	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, util.ErrQuizNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (s *stubQuizStore) FindAll() ([]model.Quiz, error) { return nil, nil }

func (s *stubQuizStore) Save(quiz *model.Quiz) error {
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *stubQuizStore) DeleteCascade(id uint) error { return nil }

type stubReactionStore struct {
	existing *model.Reaction
}

func (s *stubReactionStore) Find(quizID, userID uint) (*model.Reaction, error) {
	return s.existing, nil
}
func (s *stubReactionStore) Insert(reaction *model.Reaction) error { return nil }
func (s *stubReactionStore) Delete(quizID, userID uint) (bool, error) {
	return s.existing != nil, nil
}

type stubScoreStore struct{}

func (stubScoreStore) Find(quizID, userID uint) (*model.Score, error) { return nil, nil }
func (stubScoreStore) Insert(score *model.Score) error                { return nil }
func (stubScoreStore) FindByQuiz(quizID uint) ([]model.Score, error)  { return nil, nil }
func (stubScoreStore) FindByUser(userID uint) ([]model.Score, error)  { return nil, nil }

type stubUserDirectory struct{}

func (stubUserDirectory) FindByID(id uint) (*model.User, error) {
	return &model.User{BaseModel: model.BaseModel{ID: id}, Role: model.Player}, nil
}
func (stubUserDirectory) FindByRole(role model.UserRole) ([]model.User, error) { return nil, nil }

type stubQuestionSource struct{}

func (stubQuestionSource) FetchQuestions(context.Context, int, string, int) (model.QuestionSet, error) {
	return model.QuestionSet{}, nil
}

type stubNotifier struct{}

func (stubNotifier) SendBulkEmail([]string, string, string) error { return nil }

func newTestRouter(quizzes *stubQuizStore, reactions *stubReactionStore) *gin.Engine {
	svc := service.NewQuizService(
		quizzes,
		reactions,
		stubScoreStore{},
		stubUserDirectory{},
		stubQuestionSource{},
		stubNotifier{},
	)
	cfg := &config.Config{}
	ctrl := NewQuizController(svc, nil, cfg)

	router := gin.New()
	router.PUT("/api/quiz/:id", ctrl.UpdateQuizDetails)
	router.POST("/api/quiz/:id/like", ctrl.LikeQuiz)
	router.POST("/api/quiz/:id/unreact", ctrl.UnreactQuiz)
	return router
}

func testQuiz() *model.Quiz {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return &model.Quiz{
		BaseModel:     model.BaseModel{ID: 1},
		Title:         "General Knowledge",
		QuestionCount: 10,
		Category:      9,
		Difficulty:    "easy",
		StartDate:     start,
		EndDate:       start.Add(time.Hour),
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateQuizRejectsUnknownField(t *testing.T) {
	quizzes := &stubQuizStore{quizzes: map[uint]*model.Quiz{1: testQuiz()}}
	router := newTestRouter(quizzes, &stubReactionStore{})

	rec := doJSON(t, router, http.MethodPut, "/api/quiz/1", `{"title": "Renamed", "foo": "bar"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}

	// 未知字段必须整体拒绝，不能只应用认识的那部分
	if quizzes.quizzes[1].Title != "General Knowledge" {
		t.Errorf("title changed despite rejected update: %q", quizzes.quizzes[1].Title)
	}
}

func TestUpdateQuizPartial(t *testing.T) {
	quizzes := &stubQuizStore{quizzes: map[uint]*model.Quiz{1: testQuiz()}}
	router := newTestRouter(quizzes, &stubReactionStore{})

	rec := doJSON(t, router, http.MethodPut, "/api/quiz/1", `{"title": "Renamed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp util.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if quizzes.quizzes[1].Title != "Renamed" {
		t.Errorf("title = %q, want Renamed", quizzes.quizzes[1].Title)
	}
	if quizzes.quizzes[1].QuestionCount != 10 {
		t.Errorf("untouched questionCount changed: %d", quizzes.quizzes[1].QuestionCount)
	}
}

func TestUpdateQuizBadDate(t *testing.T) {
	quizzes := &stubQuizStore{quizzes: map[uint]*model.Quiz{1: testQuiz()}}
	router := newTestRouter(quizzes, &stubReactionStore{})

	rec := doJSON(t, router, http.MethodPut, "/api/quiz/1", `{"startDate": "01-05-2026"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateQuizNotFound(t *testing.T) {
	router := newTestRouter(&stubQuizStore{quizzes: map[uint]*model.Quiz{}}, &stubReactionStore{})

	rec := doJSON(t, router, http.MethodPut, "/api/quiz/42", `{"title": "x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateQuizBadID(t *testing.T) {
	router := newTestRouter(&stubQuizStore{quizzes: map[uint]*model.Quiz{}}, &stubReactionStore{})

	rec := doJSON(t, router, http.MethodPut, "/api/quiz/not-a-number", `{"title": "x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLikeQuizConflict(t *testing.T) {
	quizzes := &stubQuizStore{quizzes: map[uint]*model.Quiz{1: testQuiz()}}
	reactions := &stubReactionStore{existing: &model.Reaction{QuizID: 1, UserID: 2, Liked: true}}
	router := newTestRouter(quizzes, reactions)

	rec := doJSON(t, router, http.MethodPost, "/api/quiz/1/like?userId=2", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409; body: %s", rec.Code, rec.Body.String())
	}
}

func TestUnreactQuizNoop(t *testing.T) {
	quizzes := &stubQuizStore{quizzes: map[uint]*model.Quiz{1: testQuiz()}}
	router := newTestRouter(quizzes, &stubReactionStore{})

	rec := doJSON(t, router, http.MethodPost, "/api/quiz/1/unreact?userId=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"removed":false`) {
		t.Errorf("body = %s, want removed:false", rec.Body.String())
	}
}
