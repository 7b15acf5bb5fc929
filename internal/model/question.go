package model

import (
	"math/rand"
	"strings"
)

// Question 题目来自 OpenTDB，属于临时数据，不落库
type Question struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Text             string   `json:"question"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"-"`
	Options          []string `json:"options"`
}

type QuestionSet []Question

// BuildOptions 正确答案与干扰项合并后随机排序。
// 用包级 rand.Shuffle，内部带锁，并发拉题共用也安全。
func BuildOptions(correct string, incorrect []string) []string {
	options := make([]string, 0, len(incorrect)+1)
	if correct != "" {
		options = append(options, correct)
	}
	options = append(options, incorrect...)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// SetIncorrectAnswers 干扰项变化时重新生成选项顺序
func (q *Question) SetIncorrectAnswers(incorrect []string) {
	q.IncorrectAnswers = incorrect
	q.Options = BuildOptions(q.CorrectAnswer, incorrect)
}

// IsCorrect 提交答案与正确答案忽略大小写比较
func (q *Question) IsCorrect(submitted string) bool {
	return q.CorrectAnswer != "" && strings.EqualFold(q.CorrectAnswer, submitted)
}
