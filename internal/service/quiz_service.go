package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz_tournament_backend/internal/model"
	"quiz_tournament_backend/internal/util"
	"quiz_tournament_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService 比赛编排：状态判定、点赞/成绩台账、拉题、通知
type QuizService struct {
	Quizzes   QuizStore
	Reactions ReactionStore
	Scores    ScoreStore
	Users     UserDirectory
	Trivia    QuestionSource
	Notifier  Notifier

	// now 可注入，状态判定测试不依赖真实时钟
	now func() time.Time
}

func NewQuizService(
	quizzes QuizStore,
	reactions ReactionStore,
	scores ScoreStore,
	users UserDirectory,
	trivia QuestionSource,
	notifier Notifier,
) *QuizService {
	return &QuizService{
		Quizzes:   quizzes,
		Reactions: reactions,
		Scores:    scores,
		Users:     users,
		Trivia:    trivia,
		Notifier:  notifier,
		now:       time.Now,
	}
}

// CreateQuiz 保存比赛后异步通知所有玩家。
// 通知失败只记日志，不回滚创建。
func (s *QuizService) CreateQuiz(quiz *model.Quiz) error {
	if !quiz.StartDate.Before(quiz.EndDate) {
		return fmt.Errorf("%w: startDate must be before endDate", util.ErrInvalidInput)
	}
	if quiz.QuestionCount <= 0 {
		return fmt.Errorf("%w: questionCount must be positive", util.ErrInvalidInput)
	}

	if err := s.Quizzes.Create(quiz); err != nil {
		return err
	}

	go s.notifyPlayers(quiz)
	return nil
}

func (s *QuizService) notifyPlayers(quiz *model.Quiz) {
	players, err := s.Users.FindByRole(model.Player)
	if err != nil {
		logger.Log.Error("failed to load players for quiz notification", zap.Error(err))
		return
	}
	if len(players) == 0 {
		logger.Log.Info("no players to notify about the quiz", zap.Uint("quiz_id", quiz.ID))
		return
	}

	subject := "New Quiz Created: " + quiz.Title
	body := fmt.Sprintf(
		"Dear Player,\n\nA new quiz titled '%s' has been created.\nStart Date: %s\nEnd Date: %s\nCategory: %d\nDifficulty: %s\n\nGood luck!",
		quiz.Title,
		quiz.StartDate.Format(time.RFC3339),
		quiz.EndDate.Format(time.RFC3339),
		quiz.Category,
		quiz.Difficulty,
	)

	recipients := make([]string, 0, len(players))
	for _, p := range players {
		recipients = append(recipients, p.Email)
	}

	if err := s.Notifier.SendBulkEmail(recipients, subject, body); err != nil {
		logger.Log.Error("quiz notification delivery failed",
			zap.Uint("quiz_id", quiz.ID),
			zap.Error(err),
		)
	}
}

func (s *QuizService) GetAllQuizzes() ([]model.Quiz, error) {
	return s.Quizzes.FindAll()
}

// GetAllQuizzesWithStatus 全量列表投影，状态按同一时刻推导
func (s *QuizService) GetAllQuizzesWithStatus() ([]model.QuizSummary, error) {
	quizzes, err := s.Quizzes.FindAll()
	if err != nil {
		return nil, err
	}

	now := s.now()
	summaries := make([]model.QuizSummary, 0, len(quizzes))
	for i := range quizzes {
		summaries = append(summaries, quizzes[i].SummaryAt(now))
	}
	return summaries, nil
}

// GetQuizzesByStatus 按状态过滤的摘要列表
func (s *QuizService) GetQuizzesByStatus(status model.QuizStatus) ([]model.QuizSummary, error) {
	quizzes, err := s.Quizzes.FindAll()
	if err != nil {
		return nil, err
	}

	now := s.now()
	summaries := make([]model.QuizSummary, 0)
	for i := range quizzes {
		if quizzes[i].StatusAt(now) == status {
			summaries = append(summaries, quizzes[i].SummaryAt(now))
		}
	}
	return summaries, nil
}

// GetParticipatedQuizzes 用户交过成绩的比赛。
// 成绩能比比赛活得久，查不到的直接跳过。
func (s *QuizService) GetParticipatedQuizzes(userID uint) ([]model.QuizSummary, error) {
	scores, err := s.Scores.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summaries := make([]model.QuizSummary, 0, len(scores))
	for _, score := range scores {
		quiz, err := s.Quizzes.FindByID(score.QuizID)
		if errors.Is(err, util.ErrQuizNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, quiz.SummaryAt(now))
	}
	return summaries, nil
}

// Play 只有 ACTIVE 的比赛才去上游拉题，
// 未开始/已结束直接拒绝，不浪费出站配额。
func (s *QuizService) Play(ctx context.Context, quizID uint) (model.QuestionSet, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	if quiz.StatusAt(s.now()) != model.StatusActive {
		return nil, util.ErrQuizNotActive
	}

	return s.Trivia.FetchQuestions(ctx, quiz.Category, quiz.Difficulty, quiz.QuestionCount)
}

// AnswerFeedback 判题结果，答错时回显正确答案
type AnswerFeedback struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
}

// SubmitAnswer 忽略大小写比较
func (s *QuizService) SubmitAnswer(quizID uint, submitted, correct string) (*AnswerFeedback, error) {
	if _, err := s.Quizzes.FindByID(quizID); err != nil {
		return nil, err
	}

	q := model.Question{CorrectAnswer: correct}
	if q.IsCorrect(submitted) {
		return &AnswerFeedback{Correct: true}, nil
	}
	return &AnswerFeedback{Correct: false, CorrectAnswer: correct}, nil
}

// React 一人一票。已有同向反应是冲突；反向也是冲突，
// 换边必须先显式取消，绝不隐式改写已有记录。
func (s *QuizService) React(quizID, userID uint, liked bool) error {
	if _, err := s.Quizzes.FindByID(quizID); err != nil {
		return err
	}
	if err := s.ensureUser(userID); err != nil {
		return err
	}

	existing, err := s.Reactions.Find(quizID, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return util.ErrAlreadyReacted
	}

	return s.Reactions.Insert(&model.Reaction{
		QuizID: quizID,
		UserID: userID,
		Liked:  liked,
	})
}

// Unreact 取消反应；本来就没有时是无操作，不报错
func (s *QuizService) Unreact(quizID, userID uint) (bool, error) {
	if _, err := s.Quizzes.FindByID(quizID); err != nil {
		return false, err
	}
	return s.Reactions.Delete(quizID, userID)
}

// RecordScore 成绩只记一次
func (s *QuizService) RecordScore(quizID, userID uint, correctAnswers, totalQuestions int) (*model.Score, error) {
	if totalQuestions <= 0 {
		return nil, fmt.Errorf("%w: totalQuestions must be positive", util.ErrInvalidInput)
	}
	if correctAnswers < 0 || correctAnswers > totalQuestions {
		return nil, fmt.Errorf("%w: correctAnswers out of range", util.ErrInvalidInput)
	}

	if _, err := s.Quizzes.FindByID(quizID); err != nil {
		return nil, err
	}
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}

	existing, err := s.Scores.Find(quizID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrAlreadyCompleted
	}

	score := &model.Score{
		QuizID:         quizID,
		UserID:         userID,
		CorrectAnswers: correctAnswers,
		TotalQuestions: totalQuestions,
		Percentage:     float64(correctAnswers) / float64(totalQuestions) * 100,
		CompletionDate: s.now(),
	}
	if err := s.Scores.Insert(score); err != nil {
		return nil, err
	}
	return score, nil
}

func (s *QuizService) GetQuizScores(quizID uint) ([]model.Score, error) {
	return s.Scores.FindByQuiz(quizID)
}

func (s *QuizService) GetUserScores(userID uint) ([]model.Score, error) {
	return s.Scores.FindByUser(userID)
}

// QuizUpdate 显式的局部更新结构，字段集合在编译期定死。
// 未知键在控制器侧用 DisallowUnknownFields 拒掉。
type QuizUpdate struct {
	Title         *string `json:"title"`
	QuestionCount *int    `json:"questionCount"`
	Category      *int    `json:"category"`
	Difficulty    *string `json:"difficulty"`
	StartDate     *string `json:"startDate"`
	EndDate       *string `json:"endDate"`
}

// UpdateQuizDetails 应用局部更新。日期必须是 RFC3339，
// 解析失败按非法字段处理，更新后起止顺序重新校验。
func (s *QuizService) UpdateQuizDetails(quizID uint, update QuizUpdate) (*model.Quiz, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		quiz.Title = *update.Title
	}
	if update.QuestionCount != nil {
		quiz.QuestionCount = *update.QuestionCount
	}
	if update.Category != nil {
		quiz.Category = *update.Category
	}
	if update.Difficulty != nil {
		quiz.Difficulty = *update.Difficulty
	}
	if update.StartDate != nil {
		start, err := time.Parse(time.RFC3339, *update.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date format for startDate: %q", util.ErrInvalidField, *update.StartDate)
		}
		quiz.StartDate = start
	}
	if update.EndDate != nil {
		end, err := time.Parse(time.RFC3339, *update.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date format for endDate: %q", util.ErrInvalidField, *update.EndDate)
		}
		quiz.EndDate = end
	}

	if !quiz.StartDate.Before(quiz.EndDate) {
		return nil, fmt.Errorf("%w: startDate must be before endDate", util.ErrInvalidInput)
	}

	if err := s.Quizzes.Save(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(quizID uint) error {
	return s.Quizzes.DeleteCascade(quizID)
}

func (s *QuizService) ensureUser(userID uint) error {
	if _, err := s.Users.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	return nil
}
