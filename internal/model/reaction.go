package model

import "time"

// Reaction 点赞/点踩记录，(quiz_id,user_id) 唯一，一人一票。
// 不走软删除：删除后必须允许重新插入，软删除会让唯一索引一直占位。
type Reaction struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuizID    uint      `gorm:"not null;uniqueIndex:idx_reaction_quiz_user" json:"quizId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reaction_quiz_user" json:"userId"`
	Liked     bool      `gorm:"not null" json:"liked"` // true=赞 false=踩
	CreatedAt time.Time `json:"createdAt"`
}

func (Reaction) TableName() string {
	return "quiz_reactions"
}
