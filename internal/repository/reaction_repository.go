package repository

import (
	"errors"

	"quiz_tournament_backend/internal/model"
	"quiz_tournament_backend/internal/util"

	"gorm.io/gorm"
)

type ReactionRepository struct {
	DB *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{DB: db}
}

func (r *ReactionRepository) Find(quizID, userID uint) (*model.Reaction, error) {
	var reaction model.Reaction
	err := r.DB.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Insert 写入反应并在同一事务里自增对应计数器。
// 并发下重复写入靠 (quiz_id,user_id) 唯一索引拦截，统一翻译成冲突错误。
func (r *ReactionRepository) Insert(reaction *model.Reaction) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reaction).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrAlreadyReacted
			}
			return err
		}

		field := "dislikes"
		if reaction.Liked {
			field = "likes"
		}
		return tx.Model(&model.Quiz{}).
			Where("id = ?", reaction.QuizID).
			Update(field, gorm.Expr(field+" + ?", 1)).
			Error
	})
}

// Delete 删除反应并回减计数器，计数器钳制为 0。
// 没有记录时返回 false，调用方按无操作处理。
func (r *ReactionRepository) Delete(quizID, userID uint) (bool, error) {
	removed := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var reaction model.Reaction
		err := tx.Where("quiz_id = ? AND user_id = ?", quizID, userID).First(&reaction).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&reaction).Error; err != nil {
			return err
		}

		field := "dislikes"
		if reaction.Liked {
			field = "likes"
		}
		if err := tx.Model(&model.Quiz{}).
			Where("id = ?", quizID).
			Update(field, gorm.Expr("GREATEST("+field+" - ?, 0)", 1)).
			Error; err != nil {
			return err
		}

		removed = true
		return nil
	})
	return removed, err
}
