package repository

import (
	"errors"

	"quiz_tournament_backend/internal/model"
	"quiz_tournament_backend/internal/util"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return &quiz, err
}

func (r *QuizRepository) FindAll() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Save(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

// DeleteCascade 同事务删掉比赛和它的点赞记录。
// 成绩是历史数据，刻意不级联。
func (r *QuizRepository) DeleteCascade(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var quiz model.Quiz
		if err := tx.First(&quiz, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrQuizNotFound
			}
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
}
