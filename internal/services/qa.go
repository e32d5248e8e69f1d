package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/varsityhub/backend/internal/models"
)

// VoteTarget addresses exactly one question or one answer. Votes are
// polymorphic over the pair but never span both.
type VoteTarget struct {
	QuestionID string
	AnswerID   string
}

func QuestionTarget(id string) VoteTarget { return VoteTarget{QuestionID: id} }
func AnswerTarget(id string) VoteTarget   { return VoteTarget{AnswerID: id} }

func (t VoteTarget) valid() bool {
	return (t.QuestionID == "") != (t.AnswerID == "")
}

// QuestionFilter narrows ListQuestions. CourseID is exact equality,
// Search matches case-insensitive substring against title or body;
// both combine with AND.
type QuestionFilter struct {
	CourseID string
	Search   string
}

// QAService implements the Q&A interactions: questions, answers, and the
// shared signed-vote ledger. Vote totals and answer counts are always
// recomputed from the vote and answer tables on read.
type QAService struct {
	db *gorm.DB
}

func NewQAService(db *gorm.DB) *QAService {
	return &QAService{db: db}
}

// CreateQuestion creates an unresolved question with a zero view counter.
func (s *QAService) CreateQuestion(ctx context.Context, authorID string, req models.CreateQuestionRequest) (*models.Question, error) {
	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if title == "" || body == "" || req.CourseID == "" {
		return nil, validationf("title, body and course_id are required")
	}

	db := s.db.WithContext(ctx)

	var course models.Course
	if err := db.First(&course, "id = ?", req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("course %s does not exist", req.CourseID)
		}
		return nil, storeErr("lookup course", err)
	}

	question := models.Question{
		Title:    title,
		Body:     body,
		UserID:   authorID,
		CourseID: course.ID,
	}
	if err := db.Create(&question).Error; err != nil {
		return nil, storeErr("create question", err)
	}

	if err := db.Preload("User").Preload("Course").First(&question, "id = ?", question.ID).Error; err != nil {
		return nil, storeErr("reload question", err)
	}
	return &question, nil
}

// CreateAnswer creates an unaccepted answer on an existing question.
func (s *QAService) CreateAnswer(ctx context.Context, authorID, questionID string, body string) (*models.Answer, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, validationf("body is required")
	}

	db := s.db.WithContext(ctx)

	var question models.Question
	if err := db.First(&question, "id = ?", questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("question %s does not exist", questionID)
		}
		return nil, storeErr("lookup question", err)
	}

	answer := models.Answer{
		Body:       body,
		UserID:     authorID,
		QuestionID: question.ID,
	}
	if err := db.Create(&answer).Error; err != nil {
		return nil, storeErr("create answer", err)
	}

	if err := db.Preload("User").First(&answer, "id = ?", answer.ID).Error; err != nil {
		return nil, storeErr("reload answer", err)
	}
	return &answer, nil
}

// CastVote applies the three-state toggle for one voter on one target:
// no vote → vote, same vote again → removed, opposite vote → replaced.
// The delete and insert run inside one transaction so a failure between
// them cannot strand the voter at zero.
func (s *QAService) CastVote(ctx context.Context, voterID string, target VoteTarget, magnitude int) error {
	if magnitude != 1 && magnitude != -1 {
		return validationf("magnitude must be +1 or -1")
	}
	if !target.valid() {
		return validationf("vote targets exactly one question or one answer")
	}

	db := s.db.WithContext(ctx)

	// The target must exist before any ledger write.
	var err error
	if target.QuestionID != "" {
		err = db.First(&models.Question{}, "id = ?", target.QuestionID).Error
	} else {
		err = db.First(&models.Answer{}, "id = ?", target.AnswerID).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storeErr("lookup vote target", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ?", voterID)
		if target.QuestionID != "" {
			query = query.Where("question_id = ?", target.QuestionID)
		} else {
			query = query.Where("answer_id = ?", target.AnswerID)
		}

		prior := 0
		var existing models.Vote
		switch err := query.First(&existing).Error; {
		case err == nil:
			prior = existing.VoteType
			if err := tx.Delete(&existing).Error; err != nil {
				return storeErr("remove prior vote", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first vote on this target
		default:
			return storeErr("lookup prior vote", err)
		}

		if magnitude == prior {
			// toggle-off: same magnitude again removes the vote
			return nil
		}

		vote := models.Vote{UserID: voterID, VoteType: magnitude}
		if target.QuestionID != "" {
			vote.QuestionID = &target.QuestionID
		} else {
			vote.AnswerID = &target.AnswerID
		}
		if err := tx.Create(&vote).Error; err != nil {
			return storeErr("record vote", err)
		}
		return nil
	})
}

// ListQuestions returns questions newest first, each annotated with its
// author, course, summed vote total, answer count and the viewer's own
// vote. Annotations come from batched grouped queries, not per-row reads.
func (s *QAService) ListQuestions(ctx context.Context, viewerID string, filter QuestionFilter) ([]models.Question, error) {
	db := s.db.WithContext(ctx)

	query := db.Preload("User").Preload("Course").Order("created_at DESC")
	if filter.CourseID != "" {
		query = query.Where("course_id = ?", filter.CourseID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR body ILIKE ?", pattern, pattern)
	}

	var questions []models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, storeErr("list questions", err)
	}
	if err := s.annotateQuestions(ctx, viewerID, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestion returns one annotated question and bumps its view counter.
func (s *QAService) GetQuestion(ctx context.Context, viewerID, questionID string) (*models.Question, error) {
	db := s.db.WithContext(ctx)

	var question models.Question
	if err := db.Preload("User").Preload("Course").First(&question, "id = ?", questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("lookup question", err)
	}

	if err := db.Model(&models.Question{}).Where("id = ?", question.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		return nil, storeErr("bump view count", err)
	}
	question.ViewCount++

	qs := []models.Question{question}
	if err := s.annotateQuestions(ctx, viewerID, qs); err != nil {
		return nil, err
	}
	return &qs[0], nil
}

// ListAnswers returns a question's answers with any accepted answer first,
// older answers breaking ties, annotated like questions.
func (s *QAService) ListAnswers(ctx context.Context, viewerID, questionID string) ([]models.Answer, error) {
	db := s.db.WithContext(ctx)

	if err := db.First(&models.Question{}, "id = ?", questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("lookup question", err)
	}

	var answers []models.Answer
	err := db.Preload("User").
		Where("question_id = ?", questionID).
		Order("is_accepted DESC, created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, storeErr("list answers", err)
	}
	if err := s.annotateAnswers(ctx, viewerID, answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// AcceptAnswer marks one answer accepted and the question resolved.
// Only the question's author may accept; any previously accepted answer
// on the same question is cleared in the same transaction.
func (s *QAService) AcceptAnswer(ctx context.Context, requesterID, answerID string) error {
	db := s.db.WithContext(ctx)

	var answer models.Answer
	if err := db.First(&answer, "id = ?", answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storeErr("lookup answer", err)
	}

	var question models.Question
	if err := db.First(&question, "id = ?", answer.QuestionID).Error; err != nil {
		return storeErr("lookup question", err)
	}
	if question.UserID != requesterID {
		return ErrAuthorization
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND id <> ?", question.ID, answer.ID).
			Update("is_accepted", false).Error; err != nil {
			return storeErr("clear accepted answers", err)
		}
		if err := tx.Model(&models.Answer{}).Where("id = ?", answer.ID).
			Update("is_accepted", true).Error; err != nil {
			return storeErr("accept answer", err)
		}
		if err := tx.Model(&models.Question{}).Where("id = ?", question.ID).
			Update("is_resolved", true).Error; err != nil {
			return storeErr("resolve question", err)
		}
		return nil
	})
}

// DeleteQuestion hard-deletes a question with its answers and every vote
// on either. Author only, unless the requester moderates.
func (s *QAService) DeleteQuestion(ctx context.Context, requesterID, questionID string) error {
	db := s.db.WithContext(ctx)

	var question models.Question
	if err := db.First(&question, "id = ?", questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storeErr("lookup question", err)
	}

	if question.UserID != requesterID {
		mod, err := canModerate(ctx, s.db, requesterID)
		if err != nil {
			return err
		}
		if !mod {
			return ErrAuthorization
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var answerIDs []string
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", question.ID).
			Pluck("id", &answerIDs).Error; err != nil {
			return storeErr("collect answers", err)
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.Vote{}).Error; err != nil {
				return storeErr("delete answer votes", err)
			}
			if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
				return storeErr("delete answers", err)
			}
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Vote{}).Error; err != nil {
			return storeErr("delete question votes", err)
		}
		if err := tx.Delete(&question).Error; err != nil {
			return storeErr("delete question", err)
		}
		return nil
	})
}

// DeleteAnswer hard-deletes an answer and its votes. Author only, unless
// the requester moderates.
func (s *QAService) DeleteAnswer(ctx context.Context, requesterID, answerID string) error {
	db := s.db.WithContext(ctx)

	var answer models.Answer
	if err := db.First(&answer, "id = ?", answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storeErr("lookup answer", err)
	}

	if answer.UserID != requesterID {
		mod, err := canModerate(ctx, s.db, requesterID)
		if err != nil {
			return err
		}
		if !mod {
			return ErrAuthorization
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", answer.ID).Delete(&models.Vote{}).Error; err != nil {
			return storeErr("delete answer votes", err)
		}
		if err := tx.Delete(&answer).Error; err != nil {
			return storeErr("delete answer", err)
		}
		return nil
	})
}

type voteSum struct {
	TargetID string
	Total    int
}

func (s *QAService) annotateQuestions(ctx context.Context, viewerID string, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	db := s.db.WithContext(ctx)

	ids := make([]string, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
	}

	var sums []voteSum
	if err := db.Model(&models.Vote{}).
		Select("question_id AS target_id, SUM(vote_type) AS total").
		Where("question_id IN ?", ids).
		Group("question_id").
		Scan(&sums).Error; err != nil {
		return storeErr("sum question votes", err)
	}
	totals := make(map[string]int, len(sums))
	for _, row := range sums {
		totals[row.TargetID] = row.Total
	}

	var counts []voteSum
	if err := db.Model(&models.Answer{}).
		Select("question_id AS target_id, COUNT(*) AS total").
		Where("question_id IN ?", ids).
		Group("question_id").
		Scan(&counts).Error; err != nil {
		return storeErr("count answers", err)
	}
	answerCounts := make(map[string]int, len(counts))
	for _, row := range counts {
		answerCounts[row.TargetID] = row.Total
	}

	var own []models.Vote
	if err := db.Where("user_id = ? AND question_id IN ?", viewerID, ids).
		Find(&own).Error; err != nil {
		return storeErr("lookup viewer votes", err)
	}
	ownVotes := make(map[string]int, len(own))
	for _, v := range own {
		if v.QuestionID != nil {
			ownVotes[*v.QuestionID] = v.VoteType
		}
	}

	for i := range questions {
		questions[i].VotesCount = totals[questions[i].ID]
		questions[i].AnswersCount = answerCounts[questions[i].ID]
		questions[i].UserVote = ownVotes[questions[i].ID]
	}
	return nil
}

func (s *QAService) annotateAnswers(ctx context.Context, viewerID string, answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	db := s.db.WithContext(ctx)

	ids := make([]string, len(answers))
	for i := range answers {
		ids[i] = answers[i].ID
	}

	var sums []voteSum
	if err := db.Model(&models.Vote{}).
		Select("answer_id AS target_id, SUM(vote_type) AS total").
		Where("answer_id IN ?", ids).
		Group("answer_id").
		Scan(&sums).Error; err != nil {
		return storeErr("sum answer votes", err)
	}
	totals := make(map[string]int, len(sums))
	for _, row := range sums {
		totals[row.TargetID] = row.Total
	}

	var own []models.Vote
	if err := db.Where("user_id = ? AND answer_id IN ?", viewerID, ids).
		Find(&own).Error; err != nil {
		return storeErr("lookup viewer votes", err)
	}
	ownVotes := make(map[string]int, len(own))
	for _, v := range own {
		if v.AnswerID != nil {
			ownVotes[*v.AnswerID] = v.VoteType
		}
	}

	for i := range answers {
		answers[i].VotesCount = totals[answers[i].ID]
		answers[i].UserVote = ownVotes[answers[i].ID]
	}
	return nil
}
