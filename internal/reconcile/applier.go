package reconcile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"reelcat/internal/catalog"
	"reelcat/internal/logging"
	"reelcat/internal/scan"
)

// ApplyOptions controls an apply batch.
type ApplyOptions struct {
	// Override acknowledges duplicate storage waste and allows items
	// classified DuplicateElsewhere to be inserted under the scanned
	// storage. Without it, any such item refuses the whole batch.
	Override bool
}

// ApplyResult reports what one batch did.
type ApplyResult struct {
	RunID    string `json:"run_id"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
	Blocked  int    `json:"blocked"`
}

// Applier commits selected plan items to the catalog. It is the only
// component that writes during reconciliation.
type Applier struct {
	store    *catalog.Store
	logger   *slog.Logger
	lockPath string
}

// NewApplier builds an applier guarding writes with a lock file next to the
// catalog database.
func NewApplier(store *catalog.Store, logger *slog.Logger) *Applier {
	return &Applier{
		store:    store,
		logger:   logging.NewComponentLogger(logger, "apply"),
		lockPath: store.Path() + ".lock",
	}
}

// Apply commits the selected items as one batch under plan.StorageID.
//
// Policy first: when the selection contains DuplicateElsewhere items and no
// override was given, the whole batch is refused with a BlockedError and
// nothing is written. Row-level uniqueness collisions during inserts are
// counted as skipped instead of failing the batch; structural store errors
// roll everything back.
func (a *Applier) Apply(ctx context.Context, plan *Plan, selection []Item, opts ApplyOptions) (*ApplyResult, error) {
	if plan == nil {
		return nil, fmt.Errorf("reconcile: nil plan")
	}
	if len(selection) == 0 {
		selection = plan.Actionable()
	}

	result := &ApplyResult{RunID: plan.RunID}

	var blocked []Item
	for _, item := range selection {
		if item.Outcome == OutcomeDuplicateElsewhere {
			blocked = append(blocked, item)
		}
	}
	if len(blocked) > 0 && !opts.Override {
		result.Blocked = len(blocked)
		a.logger.WarnContext(ctx, "apply refused by duplicate policy",
			logging.String(logging.FieldRunID, plan.RunID),
			logging.String(logging.FieldStorageID, plan.StorageID),
			logging.Int("blocked", len(blocked)),
		)
		return result, &BlockedError{Items: blocked}
	}

	lock := flock.New(a.lockPath)
	lockCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	ok, err := lock.TryLockContext(lockCtx, 250*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("reconcile: acquire catalog lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("reconcile: catalog is locked by another process")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	tx, err := a.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range selection {
		switch item.Outcome {
		case OutcomeNewFile, OutcomeNameMatchSizeMismatch:
			if err := a.insert(ctx, tx, item.Descriptor, plan.StorageID, opts, result); err != nil {
				return nil, err
			}
		case OutcomeDuplicateElsewhere:
			// Reachable only with an override; insert under the
			// scanned storage as a second physical copy.
			if err := a.insert(ctx, tx, item.Descriptor, plan.StorageID, opts, result); err != nil {
				return nil, err
			}
		case OutcomeMoved:
			update := catalog.EntryUpdate{
				StorageID: &plan.StorageID,
				FullPath:  &item.Descriptor.FullPath,
			}
			if item.Descriptor.CreationDate != nil {
				update.CreationDate = item.Descriptor.CreationDate
			}
			if err := a.store.UpdateEntryTx(ctx, tx, item.ExistingID, update); err != nil {
				if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, catalog.ErrDuplicateEntry) {
					result.Skipped++
					continue
				}
				return nil, fmt.Errorf("reconcile: update %s: %w", item.Descriptor.Identity(), err)
			}
			result.Updated++
		case OutcomeInSync:
			// Nothing to do; tolerated in explicit selections.
		default:
			return nil, fmt.Errorf("reconcile: unknown outcome %q", item.Outcome)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("reconcile: commit batch: %w", err)
	}

	a.logger.InfoContext(ctx, "applied reconciliation batch",
		logging.String(logging.FieldRunID, plan.RunID),
		logging.String(logging.FieldStorageID, plan.StorageID),
		logging.Int("inserted", result.Inserted),
		logging.Int("updated", result.Updated),
		logging.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (a *Applier) insert(ctx context.Context, tx *sql.Tx, descriptor scan.Descriptor, storageID string, opts ApplyOptions, result *ApplyResult) error {
	// The duplicate policy is re-checked inside the transaction: an identity
	// cataloged on another storage since classification is skipped rather
	// than inserted. Same-storage collisions fall through to the uniqueness
	// constraint below.
	if !opts.Override {
		matches, err := a.store.FindByIdentityTx(ctx, tx, descriptor.FileName, descriptor.SizeBytes)
		if err != nil {
			return fmt.Errorf("reconcile: identity re-check for %s: %w", descriptor.Identity(), err)
		}
		for _, match := range matches {
			if match.StorageID != storageID {
				result.Skipped++
				return nil
			}
		}
	}

	entry := &catalog.Entry{
		FileName:     descriptor.FileName,
		Extension:    descriptor.Extension,
		SizeBytes:    descriptor.SizeBytes,
		StorageID:    storageID,
		FullPath:     descriptor.FullPath,
		CreationDate: descriptor.CreationDate,
		Year:         scan.ExtractYear(descriptor.FileName),
	}
	if err := a.store.InsertEntryTx(ctx, tx, entry); err != nil {
		if errors.Is(err, catalog.ErrDuplicateEntry) {
			result.Skipped++
			return nil
		}
		return fmt.Errorf("reconcile: insert %s: %w", descriptor.Identity(), err)
	}
	result.Inserted++
	return nil
}
