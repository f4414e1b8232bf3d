package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"reelcat/internal/catalog"
	"reelcat/internal/logging"
	"reelcat/internal/scan"
)

// Engine classifies scan results against the catalog. It never writes.
type Engine struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewEngine builds a classification engine over the given store.
func NewEngine(store *catalog.Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Classify tags every descriptor scanned under storageID with an outcome.
// Multiple descriptors sharing one identity are classified individually.
func (e *Engine) Classify(ctx context.Context, descriptors []scan.Descriptor, storageID string) (*Plan, error) {
	storageID = strings.TrimSpace(storageID)
	if storageID == "" {
		return nil, fmt.Errorf("reconcile: storage id is required")
	}

	plan := &Plan{
		RunID:     uuid.NewString(),
		StorageID: storageID,
		Items:     make([]Item, 0, len(descriptors)),
	}

	for _, descriptor := range descriptors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := e.classifyOne(ctx, descriptor, storageID)
		if err != nil {
			return nil, err
		}
		plan.Items = append(plan.Items, item)
		switch item.Outcome {
		case OutcomeNewFile:
			plan.Summary.NewFiles++
		case OutcomeNameMatchSizeMismatch:
			plan.Summary.NameSizeMismatches++
		case OutcomeMoved:
			plan.Summary.Moved++
		case OutcomeInSync:
			plan.Summary.InSync++
		case OutcomeDuplicateElsewhere:
			plan.Summary.Duplicates++
		}
	}

	e.logger.InfoContext(ctx, "classified scan",
		logging.String(logging.FieldRunID, plan.RunID),
		logging.String(logging.FieldStorageID, storageID),
		logging.Int("descriptors", len(descriptors)),
		logging.Int("new_files", plan.Summary.NewFiles),
		logging.Int("name_size_mismatches", plan.Summary.NameSizeMismatches),
		logging.Int("moved", plan.Summary.Moved),
		logging.Int("in_sync", plan.Summary.InSync),
		logging.Int("duplicates", plan.Summary.Duplicates),
	)
	return plan, nil
}

func (e *Engine) classifyOne(ctx context.Context, descriptor scan.Descriptor, storageID string) (Item, error) {
	item := Item{Descriptor: descriptor}

	matches, err := e.store.FindByIdentity(ctx, descriptor.FileName, descriptor.SizeBytes)
	if err != nil {
		return item, fmt.Errorf("reconcile: identity lookup for %s: %w", descriptor.Identity(), err)
	}

	if len(matches) == 0 {
		sameName, err := e.store.FindByName(ctx, descriptor.FileName)
		if err != nil {
			return item, fmt.Errorf("reconcile: name lookup for %s: %w", descriptor.FileName, err)
		}
		if len(sameName) > 0 {
			item.Outcome = OutcomeNameMatchSizeMismatch
		} else {
			item.Outcome = OutcomeNewFile
		}
		return item, nil
	}

	// Prefer a match on the scanned storage; otherwise the identity lives
	// elsewhere and the duplicate policy applies.
	for _, match := range matches {
		if match.StorageID == storageID {
			item.ExistingID = match.ID
			if strings.EqualFold(match.FullPath, descriptor.FullPath) {
				item.Outcome = OutcomeInSync
			} else {
				item.Outcome = OutcomeMoved
			}
			return item, nil
		}
	}

	item.Outcome = OutcomeDuplicateElsewhere
	item.ExistingStorageID = matches[0].StorageID
	return item, nil
}

// Verify compares the catalog rows recorded for storageID against a scan of
// that storage. Identity keys use the lowercased base name so the check
// tolerates case-only renames. Nothing is mutated.
func (e *Engine) Verify(ctx context.Context, descriptors []scan.Descriptor, storageID string) (*VerifyReport, error) {
	storageID = strings.TrimSpace(storageID)
	if storageID == "" {
		return nil, fmt.Errorf("reconcile: storage id is required")
	}

	entries, err := e.store.ListByStorage(ctx, storageID)
	if err != nil {
		return nil, fmt.Errorf("reconcile: list storage %s: %w", storageID, err)
	}

	report := &VerifyReport{
		RunID:     uuid.NewString(),
		StorageID: storageID,
	}

	diskKeys := make(map[string]struct{}, len(descriptors))
	for _, descriptor := range descriptors {
		diskKeys[verifyKey(descriptor.FileName, descriptor.SizeBytes)] = struct{}{}
	}
	catalogKeys := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		catalogKeys[verifyKey(entry.FileName, entry.SizeBytes)] = struct{}{}
	}

	for _, entry := range entries {
		if _, ok := diskKeys[verifyKey(entry.FileName, entry.SizeBytes)]; !ok {
			report.MissingOnDisk = append(report.MissingOnDisk, VerifyItem{
				Outcome: VerifyMissingOnDisk,
				Entry:   entry,
			})
		}
	}
	for i := range descriptors {
		descriptor := descriptors[i]
		if _, ok := catalogKeys[verifyKey(descriptor.FileName, descriptor.SizeBytes)]; !ok {
			report.MissingInCatalog = append(report.MissingInCatalog, VerifyItem{
				Outcome:    VerifyMissingInCatalog,
				Descriptor: &descriptor,
			})
		}
	}

	e.logger.InfoContext(ctx, "verified storage against disk",
		logging.String(logging.FieldRunID, report.RunID),
		logging.String(logging.FieldStorageID, storageID),
		logging.Int("missing_on_disk", len(report.MissingOnDisk)),
		logging.Int("missing_in_catalog", len(report.MissingInCatalog)),
	)
	return report, nil
}

func verifyKey(fileName string, sizeBytes int64) string {
	return fmt.Sprintf("%s|%d", strings.ToLower(fileName), sizeBytes)
}
