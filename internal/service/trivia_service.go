package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"quiz_tournament_backend/internal/config"
	"quiz_tournament_backend/internal/model"
	"quiz_tournament_backend/internal/util"
	"quiz_tournament_backend/pkg/logger"
	"quiz_tournament_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// BackoffPolicy 固定间隔重试策略。MaxAttempts 是总尝试次数上限，
// 换成指数退避只需要替换这里，不动网关的控制流。
type BackoffPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// TriviaService OpenTDB 题库网关。上游对所有接口统一限流，
// 所以出站请求一律走同一个重试循环。
type TriviaService struct {
	apiURL      string
	categoryURL string
	client      *http.Client
	policy      BackoffPolicy

	// sleep 可注入，测试里不用真等
	sleep func(ctx context.Context, d time.Duration) error
}

type triviaResponse struct {
	ResponseCode int            `json:"response_code"`
	Results      []triviaResult `json:"results"`
}

type triviaResult struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// TriviaCategory OpenTDB 分类条目
type TriviaCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type categoryResponse struct {
	TriviaCategories []TriviaCategory `json:"trivia_categories"`
}

func NewTriviaService(cfg *config.Config) *TriviaService {
	return &TriviaService{
		apiURL:      cfg.Trivia.APIURL,
		categoryURL: cfg.Trivia.CategoryURL,
		client:      &http.Client{Timeout: cfg.Trivia.TimeoutSeconds},
		policy: BackoffPolicy{
			Interval:    cfg.Trivia.BackoffSeconds,
			MaxAttempts: cfg.Trivia.MaxAttempts,
		},
		sleep: sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// doWithRetry 出站调用的统一重试循环：
//   - 2xx 返回响应体
//   - 429 固定间隔退避后重试，总尝试次数封顶
//   - 其他状态码立即失败，不重试
//   - 传输错误算一次尝试，次数用完后报网关不可用
//   - ctx 取消随时中断，不会为一个已过期的请求把重试跑完
func (s *TriviaService) doWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			monitoring.TriviaAttempts.WithLabelValues("cancelled").Inc()
			return nil, fmt.Errorf("%w: %w", util.ErrCancelled, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := s.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				monitoring.TriviaAttempts.WithLabelValues("cancelled").Inc()
				return nil, fmt.Errorf("%w: %w", util.ErrCancelled, ctx.Err())
			}
			lastErr = err
			logger.Log.Warn("trivia api transport error",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if attempt == s.policy.MaxAttempts {
				break
			}
			if err := s.sleep(ctx, s.policy.Interval); err != nil {
				monitoring.TriviaAttempts.WithLabelValues("cancelled").Inc()
				return nil, fmt.Errorf("%w: %w", util.ErrCancelled, err)
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				return nil, readErr
			}
			monitoring.TriviaAttempts.WithLabelValues("success").Inc()
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			logger.Log.Warn("trivia api rate limited",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", s.policy.MaxAttempts),
			)
			if attempt == s.policy.MaxAttempts {
				monitoring.TriviaAttempts.WithLabelValues("retries_exhausted").Inc()
				return nil, fmt.Errorf("%w after %d attempts", util.ErrRetriesExhausted, attempt)
			}
			if err := s.sleep(ctx, s.policy.Interval); err != nil {
				monitoring.TriviaAttempts.WithLabelValues("cancelled").Inc()
				return nil, fmt.Errorf("%w: %w", util.ErrCancelled, err)
			}

		default:
			monitoring.TriviaAttempts.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("%w: status %d", util.ErrUpstreamRejected, resp.StatusCode)
		}
	}

	monitoring.TriviaAttempts.WithLabelValues("unavailable").Inc()
	return nil, fmt.Errorf("%w: %v", util.ErrGatewayUnavailable, lastErr)
}

// FetchQuestions 按比赛档位拉题，选项顺序在返回前打乱
func (s *TriviaService) FetchQuestions(ctx context.Context, category int, difficulty string, amount int) (model.QuestionSet, error) {
	params := url.Values{}
	params.Set("amount", strconv.Itoa(amount))
	params.Set("category", strconv.Itoa(category))
	params.Set("difficulty", difficulty)
	params.Set("type", "multiple")

	body, err := s.doWithRetry(ctx, s.apiURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var payload triviaResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode trivia response: %w", err)
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("%w: response_code=%d", util.ErrUpstreamRejected, payload.ResponseCode)
	}

	questions := make(model.QuestionSet, 0, len(payload.Results))
	for _, result := range payload.Results {
		q := model.Question{
			Category:      result.Category,
			Type:          result.Type,
			Difficulty:    result.Difficulty,
			Text:          result.Question,
			CorrectAnswer: result.CorrectAnswer,
		}
		q.SetIncorrectAnswers(result.IncorrectAnswers)
		questions = append(questions, q)
	}
	return questions, nil
}

// FetchCategories 分类列表同样经过重试循环，上游限流对它一视同仁
func (s *TriviaService) FetchCategories(ctx context.Context) ([]TriviaCategory, error) {
	body, err := s.doWithRetry(ctx, s.categoryURL)
	if err != nil {
		return nil, err
	}

	var payload categoryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode trivia categories: %w", err)
	}
	return payload.TriviaCategories, nil
}
