// internal/services/ordering.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ordering helpers shared by every level of the tree. All of them expect to
// run inside a transaction that already holds a FOR UPDATE lock on the parent
// row, which serializes concurrent appends and reorders under one parent.

// nextOrderIndex computes the append position for a new sibling: current
// MAX(order_index) under the parent, plus one. Empty sibling sets start at 1.
func nextOrderIndex(tx *gorm.DB, model interface{}, parentColumn string, parentID uuid.UUID) (int, error) {
	var maxIndex int
	err := tx.Model(model).
		Where(parentColumn+" = ?", parentID).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&maxIndex).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute next order index: %w", err)
	}
	return maxIndex + 1, nil
}

// siblingIDs returns the current sibling ids under a parent in display order.
func siblingIDs(tx *gorm.DB, model interface{}, parentColumn string, parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(model).
		Where(parentColumn+" = ?", parentID).
		Order("order_index ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sibling ids: %w", err)
	}
	return ids, nil
}

// validateReorder checks that candidate is exactly the current sibling set:
// no foreign or duplicated ids, and no omissions. Omissions are rejected
// because a partial rewrite would leave the untouched siblings with stale
// indices and break the gapless sequence.
func validateReorder(current, candidate []uuid.UUID) error {
	currentSet := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}

	seen := make(map[uuid.UUID]bool, len(candidate))
	var foreign []uuid.UUID
	for _, id := range candidate {
		if seen[id] {
			return &InvalidReorderError{Reason: fmt.Sprintf("id %s appears more than once", id)}
		}
		seen[id] = true
		if !currentSet[id] {
			foreign = append(foreign, id)
		}
	}

	if len(foreign) > 0 {
		return &InvalidReorderError{
			Reason:     "list contains ids that do not belong to this parent",
			ForeignIDs: foreign,
		}
	}
	if len(candidate) != len(current) {
		return &InvalidReorderError{
			Reason: fmt.Sprintf("list names %d of %d siblings; a reorder must include every sibling", len(candidate), len(current)),
		}
	}
	return nil
}

// applyOrder rewrites order_index for the given ids as 1..N in list order.
// It must run inside a transaction: a failed update rolls the whole rewrite
// back, so a partial ordering is never observable.
func applyOrder(tx *gorm.DB, model interface{}, ids []uuid.UUID) error {
	for position, id := range ids {
		result := tx.Model(model).
			Where("id = ?", id).
			UpdateColumn("order_index", position+1)
		if result.Error != nil {
			return fmt.Errorf("failed to assign order index %d: %w", position+1, result.Error)
		}
		if result.RowsAffected == 0 {
			return &InvalidReorderError{Reason: fmt.Sprintf("id %s disappeared during reorder", id)}
		}
	}
	return nil
}

// resequenceSiblings renumbers the surviving siblings under a parent to a
// contiguous 1..N after a delete, preserving their relative order.
func resequenceSiblings(tx *gorm.DB, model interface{}, parentColumn string, parentID uuid.UUID) error {
	ids, err := siblingIDs(tx, model, parentColumn, parentID)
	if err != nil {
		return err
	}
	return applyOrder(tx, model, ids)
}

// reorderSiblings validates a candidate ordering against the live sibling set
// and applies it. Callers wrap this in a transaction holding the parent lock.
func reorderSiblings(tx *gorm.DB, model interface{}, parentColumn string, parentID uuid.UUID, candidate []uuid.UUID) error {
	current, err := siblingIDs(tx, model, parentColumn, parentID)
	if err != nil {
		return err
	}
	if err := validateReorder(current, candidate); err != nil {
		return err
	}
	return applyOrder(tx, model, candidate)
}
