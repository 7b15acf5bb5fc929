package service

import (
	"context"

	"quiz_tournament_backend/internal/model"
)

// 编排层只依赖这组小契约，gorm 仓储是生产实现，
// 测试用内存实现替换。

type QuizStore interface {
	Create(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	FindAll() ([]model.Quiz, error)
	Save(quiz *model.Quiz) error
	// DeleteCascade 删除比赛及其反应记录，成绩保留
	DeleteCascade(id uint) error
}

type ReactionStore interface {
	// Find 无记录时返回 (nil, nil)
	Find(quizID, userID uint) (*model.Reaction, error)
	// Insert 与计数器自增同事务，重复写入返回 util.ErrAlreadyReacted
	Insert(reaction *model.Reaction) error
	// Delete 删除并回减计数器（钳制为0），无记录返回 false
	Delete(quizID, userID uint) (bool, error)
}

type ScoreStore interface {
	// Find 无记录时返回 (nil, nil)
	Find(quizID, userID uint) (*model.Score, error)
	// Insert 重复写入返回 util.ErrAlreadyCompleted
	Insert(score *model.Score) error
	FindByQuiz(quizID uint) ([]model.Score, error)
	FindByUser(userID uint) ([]model.Score, error)
}

type UserDirectory interface {
	FindByID(id uint) (*model.User, error)
	FindByRole(role model.UserRole) ([]model.User, error)
}

type QuestionSource interface {
	FetchQuestions(ctx context.Context, category int, difficulty string, amount int) (model.QuestionSet, error)
}

type Notifier interface {
	SendBulkEmail(recipients []string, subject, body string) error
}
