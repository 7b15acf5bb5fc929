package model

import (
	"time"
)

// QuizStatus 比赛的时间状态，由 startDate/endDate 实时推导，不落库
type QuizStatus string

const (
	StatusUpcoming QuizStatus = "UPCOMING"
	StatusActive   QuizStatus = "ACTIVE"
	StatusPast     QuizStatus = "PAST"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title         string    `gorm:"size:255;not null" json:"title"`
	QuestionCount int       `gorm:"not null" json:"questionCount"`
	Category      int       `gorm:"not null" json:"category"` // OpenTDB 分类编号
	Difficulty    string    `gorm:"size:20;not null" json:"difficulty"`
	StartDate     time.Time `gorm:"not null" json:"startDate"`
	EndDate       time.Time `gorm:"not null" json:"endDate"`
	CreatedBy     string    `gorm:"size:100;not null" json:"createdBy"`
	Likes         int       `gorm:"not null;default:0" json:"likes"`
	Dislikes      int       `gorm:"not null;default:0" json:"dislikes"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// StatusAt 纯函数：起止边界都算 ACTIVE
func (q *Quiz) StatusAt(now time.Time) QuizStatus {
	if now.Before(q.StartDate) {
		return StatusUpcoming
	}
	if now.After(q.EndDate) {
		return StatusPast
	}
	return StatusActive
}

// QuizSummary 列表投影，status 为推导值
type QuizSummary struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	Category   int        `json:"category"`
	Difficulty string     `json:"difficulty"`
	Status     QuizStatus `json:"status"`
}

func (q *Quiz) SummaryAt(now time.Time) QuizSummary {
	return QuizSummary{
		ID:         q.ID,
		Title:      q.Title,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Status:     q.StatusAt(now),
	}
}
