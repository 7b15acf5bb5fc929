package repository

import (
	"errors"

	"quiz_tournament_backend/internal/model"
	"quiz_tournament_backend/internal/util"

	"gorm.io/gorm"
)

type ScoreRepository struct {
	DB *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{DB: db}
}

func (r *ScoreRepository) Find(quizID, userID uint) (*model.Score, error) {
	var score model.Score
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// Insert 成绩只写一次，唯一索引兜住并发下的重复提交
func (r *ScoreRepository) Insert(score *model.Score) error {
	if err := r.DB.Create(score).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrAlreadyCompleted
		}
		return err
	}
	return nil
}

func (r *ScoreRepository) FindByQuiz(quizID uint) ([]model.Score, error) {
	scores := make([]model.Score, 0)
	err := r.DB.Where("quiz_id = ?", quizID).Find(&scores).Error
	return scores, err
}

func (r *ScoreRepository) FindByUser(userID uint) ([]model.Score, error) {
	scores := make([]model.Score, 0)
	err := r.DB.Where("user_id = ?", userID).Find(&scores).Error
	return scores, err
}
