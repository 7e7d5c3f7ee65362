package service

import (
	"context"
	"fmt"
	"log/slog"

	"faqforge/internal/domain"
	"faqforge/internal/domain/models"
	"faqforge/internal/domain/repositories"
	"faqforge/internal/domain/services"
)

// synchronizer implements the Synchronizer interface. One Sync is one
// transaction: delete the key's prior rows, then insert the fresh set.
// External readers see either the complete old set or the complete new set.
type synchronizer struct {
	faqRepo   repositories.FAQRepository
	txManager repositories.TransactionManager
	locks     *keyedLocks
	logger    *slog.Logger
}

// NewSynchronizer creates a new persistence synchronizer.
func NewSynchronizer(
	faqRepo repositories.FAQRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.Synchronizer {
	return &synchronizer{
		faqRepo:   faqRepo,
		txManager: txManager,
		locks:     newKeyedLocks(),
		logger:    logger,
	}
}

// Sync replaces the persisted question/answer set for the key. Sections are
// written in emission order; a section without generated alternatives gets
// the punctuated heading as its single fallback question, so every answer
// always has at least one question row.
func (s *synchronizer) Sync(
	ctx context.Context,
	sections []models.FaqSection,
	questions map[string]models.QuestionSet,
	key models.TargetingKey,
	seqs models.SequenceNames,
) (*models.SyncResult, error) {
	release := s.locks.acquire(fmt.Sprintf("%d:%d", key.ConsoleID, key.SubConsoleID))
	defer release()

	var result models.SyncResult
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		deletedQuestions, deletedAnswers, err := s.faqRepo.DeleteByConsole(txCtx, key.ConsoleID, key.SubConsoleID)
		if err != nil {
			return err
		}
		result.DeletedQuestions = deletedQuestions
		result.DeletedAnswers = deletedAnswers

		for _, sec := range sections {
			answerID, err := s.faqRepo.InsertAnswer(txCtx, key, sec.HTML, seqs.Answers)
			if err != nil {
				return err
			}
			result.InsertedAnswers++

			qs := questions[sec.Slug].Alternatives
			if len(qs) == 0 {
				qs = []string{models.EnsureQuestionMark(sec.Heading)}
			}
			if err := s.faqRepo.InsertQuestions(txCtx, key, answerID, qs, seqs.Questions); err != nil {
				return err
			}
			result.InsertedQuestions += len(qs)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.PersistenceError{Message: "faq sync", Err: err}
	}

	s.logger.Info("faq sync committed",
		"console", key.ConsoleID,
		"sub_console", key.SubConsoleID,
		"deleted_questions", result.DeletedQuestions,
		"deleted_answers", result.DeletedAnswers,
		"inserted_answers", result.InsertedAnswers,
		"inserted_questions", result.InsertedQuestions,
	)
	return &result, nil
}
