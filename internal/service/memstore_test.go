package service

import (
	"context"
	"sync"

	"quiz_tournament_backend/internal/model"
	"quiz_tournament_backend/internal/util"

	"gorm.io/gorm"
)

// 内存版仓储，只给编排层测试用。并发语义和数据库一致：
// 唯一键冲突在插入点原子判定。

type reactionKey struct {
	quizID uint
	userID uint
}

type memQuizStore struct {
	mu      sync.Mutex
	nextID  uint
	quizzes map[uint]model.Quiz

	reactions *memReactionStore
}

func newMemQuizStore() *memQuizStore {
	return &memQuizStore{nextID: 1, quizzes: make(map[uint]model.Quiz)}
}

func (s *memQuizStore) Create(quiz *model.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.ID = s.nextID
	s.nextID++
	s.quizzes[quiz.ID] = *quiz
	return nil
}

func (s *memQuizStore) FindByID(id uint) (*model.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, util.ErrQuizNotFound
	}
	copied := quiz
	return &copied, nil
}

func (s *memQuizStore) FindAll() ([]model.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]model.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		all = append(all, quiz)
	}
	return all, nil
}

func (s *memQuizStore) Save(quiz *model.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		return util.ErrQuizNotFound
	}
	s.quizzes[quiz.ID] = *quiz
	return nil
}

func (s *memQuizStore) DeleteCascade(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return util.ErrQuizNotFound
	}
	delete(s.quizzes, id)
	if s.reactions != nil {
		s.reactions.deleteByQuiz(id)
	}
	return nil
}

// bumpCounter 镜像仓储里的原子加减：自增直加，回减钳制为 0
func (s *memQuizStore) bumpCounter(quizID uint, liked bool, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return
	}
	if liked {
		quiz.Likes += delta
		if quiz.Likes < 0 {
			quiz.Likes = 0
		}
	} else {
		quiz.Dislikes += delta
		if quiz.Dislikes < 0 {
			quiz.Dislikes = 0
		}
	}
	s.quizzes[quizID] = quiz
}

type memReactionStore struct {
	mu        sync.Mutex
	reactions map[reactionKey]model.Reaction

	quizzes *memQuizStore
}

func newMemReactionStore() *memReactionStore {
	return &memReactionStore{reactions: make(map[reactionKey]model.Reaction)}
}

func (s *memReactionStore) Find(quizID, userID uint) (*model.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reaction, ok := s.reactions[reactionKey{quizID, userID}]
	if !ok {
		return nil, nil
	}
	copied := reaction
	return &copied, nil
}

func (s *memReactionStore) Insert(reaction *model.Reaction) error {
	s.mu.Lock()
	key := reactionKey{reaction.QuizID, reaction.UserID}
	if _, ok := s.reactions[key]; ok {
		s.mu.Unlock()
		return util.ErrAlreadyReacted
	}
	s.reactions[key] = *reaction
	s.mu.Unlock()

	if s.quizzes != nil {
		s.quizzes.bumpCounter(reaction.QuizID, reaction.Liked, 1)
	}
	return nil
}

func (s *memReactionStore) Delete(quizID, userID uint) (bool, error) {
	s.mu.Lock()
	key := reactionKey{quizID, userID}
	reaction, ok := s.reactions[key]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.reactions, key)
	s.mu.Unlock()

	if s.quizzes != nil {
		s.quizzes.bumpCounter(quizID, reaction.Liked, -1)
	}
	return true, nil
}

func (s *memReactionStore) deleteByQuiz(quizID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.reactions {
		if key.quizID == quizID {
			delete(s.reactions, key)
		}
	}
}

func (s *memReactionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reactions)
}

type memScoreStore struct {
	mu     sync.Mutex
	scores map[reactionKey]model.Score
}

func newMemScoreStore() *memScoreStore {
	return &memScoreStore{scores: make(map[reactionKey]model.Score)}
}

func (s *memScoreStore) Find(quizID, userID uint) (*model.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	score, ok := s.scores[reactionKey{quizID, userID}]
	if !ok {
		return nil, nil
	}
	copied := score
	return &copied, nil
}

func (s *memScoreStore) Insert(score *model.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reactionKey{score.QuizID, score.UserID}
	if _, ok := s.scores[key]; ok {
		return util.ErrAlreadyCompleted
	}
	s.scores[key] = *score
	return nil
}

func (s *memScoreStore) FindByQuiz(quizID uint) ([]model.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scores := make([]model.Score, 0)
	for key, score := range s.scores {
		if key.quizID == quizID {
			scores = append(scores, score)
		}
	}
	return scores, nil
}

func (s *memScoreStore) FindByUser(userID uint) ([]model.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scores := make([]model.Score, 0)
	for key, score := range s.scores {
		if key.userID == userID {
			scores = append(scores, score)
		}
	}
	return scores, nil
}

type memUserDirectory struct {
	mu    sync.Mutex
	users map[uint]model.User
}

func newMemUserDirectory(users ...model.User) *memUserDirectory {
	dir := &memUserDirectory{users: make(map[uint]model.User)}
	for _, u := range users {
		dir.users[u.ID] = u
	}
	return dir
}

func (d *memUserDirectory) FindByID(id uint) (*model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := user
	return &copied, nil
}

func (d *memUserDirectory) FindByRole(role model.UserRole) ([]model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	matched := make([]model.User, 0)
	for _, user := range d.users {
		if user.Role == role {
			matched = append(matched, user)
		}
	}
	return matched, nil
}

// fakeQuestionSource 记录调用次数，不出网
type fakeQuestionSource struct {
	mu        sync.Mutex
	calls     int
	questions model.QuestionSet
	err       error
}

func (f *fakeQuestionSource) FetchQuestions(_ context.Context, _ int, _ string, _ int) (model.QuestionSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

func (f *fakeQuestionSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeNotifier 通知是异步发出的，done 用来等它落地
type fakeNotifier struct {
	mu         sync.Mutex
	recipients []string
	subject    string
	err        error
	done       chan struct{}
}

func newFakeNotifier(err error) *fakeNotifier {
	return &fakeNotifier{err: err, done: make(chan struct{}, 1)}
}

func (f *fakeNotifier) SendBulkEmail(recipients []string, subject, _ string) error {
	f.mu.Lock()
	f.recipients = append([]string(nil), recipients...)
	f.subject = subject
	f.mu.Unlock()
	select {
	case f.done <- struct{}{}:
	default:
	}
	return f.err
}

func (f *fakeNotifier) sent() ([]string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recipients, f.subject
}
