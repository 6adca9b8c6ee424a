package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	emaildomain "inboxpilot-backend/internal/email/domain"
)

// Synchronize runs the sync pipeline: connecting, fetching, classifying,
// saving, completed. It never lets a failure escape: except for the
// single-flight rejection, the caller always receives a SyncRun whose Success
// flag reflects the outcome.
func (u *emailUsecase) Synchronize(ctx context.Context, userID string, maxMessages int) (*emaildomain.SyncRun, error) {
	if !u.tryAcquireSync(userID) {
		return nil, emaildomain.ErrSyncInProgress
	}
	defer u.releaseSync(userID)

	if maxMessages <= 0 || maxMessages > u.config.SyncMaxMessages {
		maxMessages = u.config.SyncMaxMessages
	}

	run := &emaildomain.SyncRun{
		UserID:    userID,
		StartedAt: time.Now(),
		Errors:    emaildomain.StringArray{},
		Success:   true,
	}

	fatal := u.runPipeline(ctx, userID, maxMessages, run)
	run.CompletedAt = time.Now()

	if fatal != nil {
		log.Printf("[Sync] Run failed for user %s: %v", userID, fatal)
		run.Success = false
		run.Errors = append(run.Errors, fatal.Error())
	} else {
		u.emit(userID, emaildomain.SyncProgress{
			Stage:   emaildomain.StageSaving,
			Percent: 90,
			Message: "Enregistrement de l'historique",
		})
	}

	if err := u.syncRunRepo.Create(run); err != nil {
		log.Printf("[Sync] Failed to record sync run for user %s: %v", userID, err)
	}

	if fatal != nil {
		u.emit(userID, emaildomain.SyncProgress{
			Stage:   emaildomain.StageError,
			Percent: 100,
			Message: fatal.Error(),
		})
	} else {
		u.emit(userID, emaildomain.SyncProgress{
			Stage:   emaildomain.StageCompleted,
			Percent: 100,
			Message: fmt.Sprintf("Synchronisation terminée: %d nouveaux messages", run.NewEmails),
		})
	}

	return run, nil
}

func (u *emailUsecase) tryAcquireSync(userID string) bool {
	u.syncMu.Lock()
	defer u.syncMu.Unlock()
	if u.activeSyncs[userID] {
		return false
	}
	u.activeSyncs[userID] = true
	return true
}

func (u *emailUsecase) releaseSync(userID string) {
	u.syncMu.Lock()
	defer u.syncMu.Unlock()
	delete(u.activeSyncs, userID)
}

func (u *emailUsecase) emit(userID string, progress emaildomain.SyncProgress) {
	if u.publish != nil {
		u.publish(userID, progress)
	}
}

// runPipeline executes the stages up to (but not including) the history
// record. Its return value is the run-level error; per-message failures land
// in run.Errors instead. Panics are converted into a run-level error.
func (u *emailUsecase) runPipeline(ctx context.Context, userID string, maxMessages int, run *emaildomain.SyncRun) (fatal error) {
	defer func() {
		if r := recover(); r != nil {
			fatal = fmt.Errorf("sync pipeline panicked: %v", r)
		}
	}()

	// Stage: connecting
	u.emit(userID, emaildomain.SyncProgress{
		Stage:   emaildomain.StageConnecting,
		Percent: 0,
		Message: "Connexion à la messagerie",
	})

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return errors.New("user not found")
	}

	provider, creds, err := u.providerFor(user)
	if err != nil {
		return err
	}

	if err := provider.TestConnection(ctx, creds); err != nil {
		return fmt.Errorf("mailbox connection failed: %w", err)
	}

	// Stage: fetching
	u.emit(userID, emaildomain.SyncProgress{
		Stage:   emaildomain.StageFetching,
		Percent: 10,
		Message: "Récupération des messages",
	})

	ids, err := provider.ListRecentMessageIDs(ctx, creds, maxMessages)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}
	run.EmailsFetched = len(ids)

	newIDs, err := u.emailRepo.FilterNewExternalIDs(userID, ids)
	if err != nil {
		return fmt.Errorf("failed to filter stored messages: %w", err)
	}

	// Nothing new is a successful, empty run
	if len(newIDs) == 0 {
		return nil
	}

	fetched := u.fetchDetails(ctx, userID, provider, creds, newIDs)

	// Stage: classifying
	u.emit(userID, emaildomain.SyncProgress{
		Stage:   emaildomain.StageClassifying,
		Percent: 40,
		Message: "Classification des messages",
		Total:   len(fetched),
	})

	if _, created, err := u.categorizer.EnsureDefaultCategory(userID); err != nil {
		return err
	} else if created {
		run.CategoriesCreated++
	}

	categories, err := u.categoryRepo.GetByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	// Classification runs strictly sequentially: the AI provider is
	// rate-limited and category creation mutates the working set
	for i, email := range fetched {
		u.emit(userID, emaildomain.SyncProgress{
			Stage:     emaildomain.StageClassifying,
			Percent:   40 + 50*i/len(fetched),
			Message:   "Classification des messages",
			Current:   email.Subject,
			Processed: i,
			Total:     len(fetched),
		})

		email.UserID = userID

		assignment, err := u.categorizer.Categorize(ctx, userID, email, categories)
		if err != nil {
			// Per-message failure: record it and persist without a category
			run.Errors = append(run.Errors, fmt.Sprintf("message %s: %v", email.ExternalID, err))
			email.CategoryID = nil
		} else {
			categoryID := assignment.CategoryID
			email.CategoryID = &categoryID
			if assignment.NewCategory != nil {
				categories = append(categories, assignment.NewCategory)
				run.CategoriesCreated++
			}
		}

		if err := u.emailRepo.SaveMessage(email); err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("message %s: %v", email.ExternalID, err))
			continue
		}
		run.NewEmails++
	}

	return nil
}

// fetchDetails retrieves full messages in fixed-size concurrent batches,
// preserving the id order. A failed fetch drops that message only.
func (u *emailUsecase) fetchDetails(ctx context.Context, userID string, provider emaildomain.MailProvider, creds emaildomain.Credentials, ids []string) []*emaildomain.Email {
	batchSize := u.config.SyncBatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	results := make([]*emaildomain.Email, len(ids))
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				email, err := provider.GetMessageDetail(ctx, creds, ids[idx])
				if err != nil {
					log.Printf("[Sync] Failed to fetch message %s: %v", ids[idx], err)
					return
				}
				results[idx] = email
			}(i)
		}
		wg.Wait()

		u.emit(userID, emaildomain.SyncProgress{
			Stage:     emaildomain.StageFetching,
			Percent:   10 + 30*end/len(ids),
			Message:   "Récupération des messages",
			Processed: end,
			Total:     len(ids),
		})
	}

	fetched := make([]*emaildomain.Email, 0, len(ids))
	for _, email := range results {
		if email != nil {
			fetched = append(fetched, email)
		}
	}
	return fetched
}
