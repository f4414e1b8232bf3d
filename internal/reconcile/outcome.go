package reconcile

import (
	"fmt"
	"strings"

	"reelcat/internal/catalog"
	"reelcat/internal/scan"
)

// Outcome is the classification assigned to a scan descriptor.
type Outcome string

const (
	// OutcomeNewFile marks a descriptor whose identity is unknown to the
	// catalog. Candidate insert.
	OutcomeNewFile Outcome = "new_file"

	// OutcomeNameMatchSizeMismatch marks a descriptor whose name exists in
	// the catalog with a different size. Candidate insert of a distinct
	// file version.
	OutcomeNameMatchSizeMismatch Outcome = "name_match_size_mismatch"

	// OutcomeMoved marks a descriptor whose identity is cataloged on the
	// scanned storage but under a different path. Candidate update.
	OutcomeMoved Outcome = "moved"

	// OutcomeInSync marks a descriptor fully consistent with the catalog.
	// No action.
	OutcomeInSync Outcome = "in_sync"

	// OutcomeDuplicateElsewhere marks a descriptor whose identity is
	// already cataloged under a different storage. Never applied without
	// an explicit override.
	OutcomeDuplicateElsewhere Outcome = "duplicate_elsewhere"
)

// Actionable reports whether the outcome requires a write to resolve.
func (o Outcome) Actionable() bool {
	return o != OutcomeInSync
}

// Item is one classified scan descriptor. ExistingID is non-zero only for
// Moved and InSync, where a concrete catalog row was matched.
type Item struct {
	Descriptor scan.Descriptor `json:"descriptor"`
	Outcome    Outcome         `json:"outcome"`
	ExistingID int64           `json:"existing_id,omitempty"`
	// ExistingStorageID names the storage the identity is already cataloged
	// under when Outcome is DuplicateElsewhere.
	ExistingStorageID string `json:"existing_storage_id,omitempty"`
}

// Plan is the result of one classification run over a scan.
type Plan struct {
	RunID     string `json:"run_id"`
	StorageID string `json:"storage_id"`
	Items     []Item `json:"items"`
	Summary   Counts `json:"summary"`
}

// Counts summarizes a plan by outcome.
type Counts struct {
	NewFiles           int `json:"new_files"`
	NameSizeMismatches int `json:"name_size_mismatches"`
	Moved              int `json:"moved"`
	InSync             int `json:"in_sync"`
	Duplicates         int `json:"duplicates"`
}

// Actionable returns the plan items that require a write, in plan order.
func (p *Plan) Actionable() []Item {
	items := make([]Item, 0, len(p.Items))
	for _, item := range p.Items {
		if item.Outcome.Actionable() {
			items = append(items, item)
		}
	}
	return items
}

// VerifyOutcome is a difference class found when checking a storage's
// catalog rows against the disk.
type VerifyOutcome string

const (
	// VerifyMissingOnDisk marks a catalog entry whose identity was not
	// found anywhere in the scan. Reported only, never deleted.
	VerifyMissingOnDisk VerifyOutcome = "missing_on_disk"

	// VerifyMissingInCatalog marks a disk file whose identity has no
	// catalog row for the verified storage.
	VerifyMissingInCatalog VerifyOutcome = "exists_on_disk_missing_in_catalog"
)

// VerifyItem is one difference found by Verify.
type VerifyItem struct {
	Outcome VerifyOutcome `json:"outcome"`
	// Entry is set for MissingOnDisk.
	Entry *catalog.Entry `json:"entry,omitempty"`
	// Descriptor is set for MissingInCatalog.
	Descriptor *scan.Descriptor `json:"descriptor,omitempty"`
}

// VerifyReport is the full outcome of a Verify pass.
type VerifyReport struct {
	RunID            string       `json:"run_id"`
	StorageID        string       `json:"storage_id"`
	MissingOnDisk    []VerifyItem `json:"missing_on_disk"`
	MissingInCatalog []VerifyItem `json:"missing_in_catalog"`
}

// BlockedError reports a batch refused because it contained cross-storage
// duplicates without an override.
type BlockedError struct {
	Items []Item
}

func (e *BlockedError) Error() string {
	identities := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		identity := item.Descriptor.Identity()
		if item.ExistingStorageID != "" {
			identity += " already on " + item.ExistingStorageID
		}
		identities = append(identities, identity)
	}
	return fmt.Sprintf("reconcile: batch blocked by %d duplicate(s) without override: %s",
		len(e.Items), strings.Join(identities, "; "))
}
