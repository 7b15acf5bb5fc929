package model

import "time"

// Score 完赛成绩，(quiz_id,user_id) 唯一，写入后不可修改。
// 保留为历史记录，比赛删除后依然存在。
type Score struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuizID         uint      `gorm:"not null;uniqueIndex:idx_score_quiz_user" json:"quizId"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_score_quiz_user" json:"userId"`
	CorrectAnswers int       `gorm:"not null" json:"correctAnswers"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	Percentage     float64   `gorm:"not null" json:"percentage"`
	CompletionDate time.Time `gorm:"not null" json:"completionDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (Score) TableName() string {
	return "quiz_scores"
}
