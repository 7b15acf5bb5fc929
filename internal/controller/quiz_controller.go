package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"quiz_tournament_backend/internal/config"
	"quiz_tournament_backend/internal/model"
	"quiz_tournament_backend/internal/service"
	"quiz_tournament_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService   *service.QuizService
	TriviaService *service.TriviaService
	Cfg           *config.Config
}

func NewQuizController(quizService *service.QuizService, triviaService *service.TriviaService, cfg *config.Config) *QuizController {
	return &QuizController{
		QuizService:   quizService,
		TriviaService: triviaService,
		Cfg:           cfg,
	}
}

// CreateQuizRequest 创建比赛请求
// swagger:model CreateQuizRequest
type CreateQuizRequest struct {
	Title         string    `json:"title" binding:"required"`
	QuestionCount int       `json:"questionCount" binding:"required,min=1"`
	Category      int       `json:"category" binding:"required"`
	Difficulty    string    `json:"difficulty" binding:"required,oneof=easy medium hard"`
	StartDate     time.Time `json:"startDate" binding:"required"`
	EndDate       time.Time `json:"endDate" binding:"required"`
}

// CreateQuiz godoc
// @Summary 创建比赛
// @Description 管理员创建比赛并给所有玩家发通知邮件
// @Tags 比赛
// @Accept json
// @Produce json
// @Param body body CreateQuizRequest true "比赛信息"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Router /quiz/create [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz := &model.Quiz{
		Title:         req.Title,
		QuestionCount: req.QuestionCount,
		Category:      req.Category,
		Difficulty:    req.Difficulty,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		CreatedBy:     claims.Username,
	}

	if err := c.QuizService.CreateQuiz(quiz); err != nil {
		c.renderError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

// UpdateQuizDetails godoc
// @Summary 局部更新比赛
// @Description 只接受 title/questionCount/category/difficulty/startDate/endDate，未知字段一律拒绝
// @Tags 比赛
// @Accept json
// @Produce json
// @Param quizId path int true "比赛 ID"
// @Param body body service.QuizUpdate true "更新字段"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response "未知字段或日期格式错误"
// @Failure 404 {object} util.Response
// @Router /quiz/{quizId} [put]
func (c *QuizController) UpdateQuizDetails(ctx *gin.Context) {
	quizID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	// 未知键在这里就挡掉，不会悄悄忽略
	var update service.QuizUpdate
	decoder := json.NewDecoder(ctx.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&update); err != nil {
		util.BadRequest(ctx, util.ErrInvalidField.Error()+": "+err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuizDetails(quizID, update)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除比赛
// @Description 同时清掉点赞记录，成绩作为历史数据保留
// @Tags 比赛
// @Produce json
// @Param id path int true "比赛 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/{id}/delete [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	quizID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.QuizService.DeleteQuiz(quizID); err != nil {
		c.renderError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Quiz deleted successfully!"})
}

// GetAllQuizzes godoc
// @Summary 比赛列表
// @Tags 比赛
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /quiz/all [get]
func (c *QuizController) GetAllQuizzes(ctx *gin.Context) {
	quizzes, err := c.QuizService.GetAllQuizzes()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// GetAllQuizzesWithStatus godoc
// @Summary 带状态的比赛列表
// @Description 状态为 UPCOMING/ACTIVE/PAST，实时推导
// @Tags 比赛
// @Produce json
// @Success 200 {object} util.Response{data=[]model.QuizSummary}
// @Router /quiz/all-with-status [get]
func (c *QuizController) GetAllQuizzesWithStatus(ctx *gin.Context) {
	summaries, err := c.QuizService.GetAllQuizzesWithStatus()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// GetQuizzesByStatus godoc
// @Summary 按状态筛选比赛
// @Tags 比赛
// @Produce json
// @Param status path string true "upcoming|active|past"
// @Success 200 {object} util.Response{data=[]model.QuizSummary}
// @Router /quiz/summaries/{status} [get]
func (c *QuizController) GetQuizzesByStatus(ctx *gin.Context) {
	var status model.QuizStatus
	switch ctx.Param("status") {
	case "upcoming":
		status = model.StatusUpcoming
	case "active":
		status = model.StatusActive
	case "past":
		status = model.StatusPast
	default:
		util.BadRequest(ctx, "status must be one of: upcoming, active, past")
		return
	}

	summaries, err := c.QuizService.GetQuizzesByStatus(status)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// GetParticipatedQuizzes godoc
// @Summary 我参与过的比赛
// @Tags 比赛
// @Produce json
// @Success 200 {object} util.Response{data=[]model.QuizSummary}
// @Router /quiz/participated [get]
func (c *QuizController) GetParticipatedQuizzes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summaries, err := c.QuizService.GetParticipatedQuizzes(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// PlayQuiz godoc
// @Summary 开始答题
// @Description 只有 ACTIVE 的比赛可玩，题目从 OpenTDB 实时拉取
// @Tags 比赛
// @Produce json
// @Param id path int true "比赛 ID"
// @Success 200 {object} util.Response{data=model.QuestionSet}
// @Failure 403 {object} util.Response "比赛未开始或已结束"
// @Failure 503 {object} util.Response "上游限流重试耗尽"
// @Router /quiz/{id}/play [get]
func (c *QuizController) PlayQuiz(ctx *gin.Context) {
	quizID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	// 请求超时预算要盖住整个重试循环
	budget := time.Duration(c.Cfg.Trivia.MaxAttempts)*(c.Cfg.Trivia.TimeoutSeconds+c.Cfg.Trivia.BackoffSeconds) + time.Second
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), budget)
	defer cancel()

	questions, err := c.QuizService.Play(reqCtx, quizID)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// AnswerRequest 判题请求
// swagger:model AnswerRequest
type AnswerRequest struct {
	QuestionID      int64  `json:"questionId"`
	SubmittedAnswer string `json:"submittedAnswer" binding:"required"`
	CorrectAnswer   string `json:"correctAnswer" binding:"required"`
}

// SubmitAnswer godoc
// @Summary 提交答案
// @Description 忽略大小写判题，答错时返回正确答案
// @Tags 比赛
// @Accept json
// @Produce json
// @Param id path int true "比赛 ID"
// @Param body body AnswerRequest true "答案"
// @Success 200 {object} util.Response{data=service.AnswerFeedback}
// @Router /quiz/{id}/submit [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	quizID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.QuizService.SubmitAnswer(quizID, req.SubmittedAnswer, req.CorrectAnswer)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	util.Success(ctx, feedback)
}

// LikeQuiz godoc
// @Summary 点赞
// @Tags 比赛
// @Produce json
// @Param id path int true "比赛 ID"
// @Param userId query int true "用户 ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "已经表过态"
// @Router /quiz/{id}/like [post]
func (c *QuizController) LikeQuiz(ctx *gin.Context) {
	c.react(ctx, true)
}

// UnlikeQuiz godoc
// @Summary 点踩
// @Description 沿用对外契约：unlike 即点踩
// @Tags 比赛
// @Produce json
// @Param id path int true "比赛 ID"
// @Param userId query int true "用户 ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "已经表过态"
// @Router /quiz/{id}/unlike [post]
func (c *QuizController) UnlikeQuiz(ctx *gin.Context) {
	c.react(ctx, false)
}

// UnreactQuiz godoc
// @Summary 取消反应
// @Description 删除该用户对这场比赛的反应，换边前必须先走这里；没有反应时是无操作
// @Tags 比赛
// @Produce json
// @Param id path int true "比赛 ID"
// @Param userId query int true "用户 ID"
// @Success 200 {object} util.Response
// @Router /quiz/{id}/unreact [post]
func (c *QuizController) UnreactQuiz(ctx *gin.Context) {
	quizID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := c.queryID(ctx, "userId")
	if !ok {
		return
	}

	removed, err := c.QuizService.Unreact(quizID, userID)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"removed": removed})
}

func (c *QuizController) react(ctx *gin.Context, liked bool) {
	quizID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := c.queryID(ctx, "userId")
	if !ok {
		return
	}

	if err := c.QuizService.React(quizID, userID, liked); err != nil {
		c.renderError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "reaction recorded"})
}

// RecordScore godoc
// @Summary 记录成绩
// @Description 每人每场只能记一次，重复提交返回 409
// @Tags 比赛
// @Produce json
// @Param quizId path int true "比赛 ID"
// @Param userId query int true "用户 ID"
// @Param correctAnswers query int true "答对数"
// @Param totalQuestions query int true "总题数"
// @Success 201 {object} util.Response{data=model.Score}
// @Failure 409 {object} util.Response "已交过成绩"
// @Router /quiz/{quizId}/score [post]
func (c *QuizController) RecordScore(ctx *gin.Context) {
	quizID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := c.queryID(ctx, "userId")
	if !ok {
		return
	}

	correctAnswers, err := strconv.Atoi(ctx.Query("correctAnswers"))
	if err != nil {
		util.BadRequest(ctx, "correctAnswers must be an integer")
		return
	}
	totalQuestions, err := strconv.Atoi(ctx.Query("totalQuestions"))
	if err != nil {
		util.BadRequest(ctx, "totalQuestions must be an integer")
		return
	}

	score, err := c.QuizService.RecordScore(quizID, userID, correctAnswers, totalQuestions)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	util.Created(ctx, score)
}

// GetQuizScores godoc
// @Summary 某场比赛的全部成绩
// @Tags 比赛
// @Produce json
// @Param quizId path int true "比赛 ID"
// @Success 200 {object} util.Response{data=[]model.Score}
// @Router /quiz/{quizId}/scores [get]
func (c *QuizController) GetQuizScores(ctx *gin.Context) {
	quizID, ok := c.pathID(ctx, "id")
	if !ok {
		return
	}

	scores, err := c.QuizService.GetQuizScores(quizID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, scores)
}

// GetUserScores godoc
// @Summary 某用户的全部成绩
// @Tags 比赛
// @Produce json
// @Param userId path int true "用户 ID"
// @Success 200 {object} util.Response{data=[]model.Score}
// @Router /quiz/user/{userId}/scores [get]
func (c *QuizController) GetUserScores(ctx *gin.Context) {
	userID, ok := c.pathID(ctx, "userId")
	if !ok {
		return
	}

	scores, err := c.QuizService.GetUserScores(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, scores)
}

// FetchCategories godoc
// @Summary OpenTDB 分类列表
// @Tags 比赛
// @Produce json
// @Success 200 {object} util.Response{data=[]service.TriviaCategory}
// @Router /quiz/categories [get]
func (c *QuizController) FetchCategories(ctx *gin.Context) {
	categories, err := c.TriviaService.FetchCategories(ctx.Request.Context())
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

func (c *QuizController) pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		util.BadRequest(ctx, name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func (c *QuizController) queryID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Query(name), 10, 64)
	if err != nil {
		util.BadRequest(ctx, name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// renderError 业务错误到 HTTP 状态码的统一映射
func (c *QuizController) renderError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrAlreadyReacted), errors.Is(err, util.ErrAlreadyCompleted):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrQuizNotActive):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrInvalidField), errors.Is(err, util.ErrInvalidInput):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUpstreamRejected):
		util.Error(ctx, http.StatusBadGateway, err.Error())
	case errors.Is(err, util.ErrRetriesExhausted), errors.Is(err, util.ErrGatewayUnavailable):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, util.ErrCancelled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		util.Error(ctx, http.StatusRequestTimeout, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
