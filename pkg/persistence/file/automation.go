package file

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
)

const automationsDir = "automations"

// AutomationRepository stores automations as JSON documents.
type AutomationRepository struct {
	persistence *Persistence
}

func (r *AutomationRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Automation, error) {
	r.persistence.mu.RLock()
	defer r.persistence.mu.RUnlock()

	return r.getByIDForOwnerLocked(id, ownerID)
}

func (r *AutomationRepository) getByIDForOwnerLocked(id, ownerID string) (*models.Automation, error) {
	var automation models.Automation

	found, err := r.persistence.readDocument(automationsDir, id, &automation)
	if err != nil {
		return nil, err
	}

	if !found || automation.DeletedAt != nil || automation.OwnerID != ownerID {
		return nil, persistence.ErrAutomationNotFound
	}

	return &automation, nil
}

func (r *AutomationRepository) List(ctx context.Context, ownerID string) ([]*models.Automation, error) {
	r.persistence.mu.RLock()
	defer r.persistence.mu.RUnlock()

	ids, err := r.persistence.listDocumentIDs(automationsDir)
	if err != nil {
		return nil, err
	}

	automations := make([]*models.Automation, 0, len(ids))

	for _, id := range ids {
		var automation models.Automation

		found, err := r.persistence.readDocument(automationsDir, id, &automation)
		if err != nil {
			return nil, err
		}

		if !found || automation.DeletedAt != nil || automation.OwnerID != ownerID {
			continue
		}

		automations = append(automations, &automation)
	}

	sort.Slice(automations, func(i, j int) bool {
		return automations[i].CreatedAt.After(automations[j].CreatedAt)
	})

	return automations, nil
}

func (r *AutomationRepository) Save(ctx context.Context, automation *models.Automation) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	if automation.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate automation ID: %w", err)
		}

		automation.ID = id.String()
	}

	now := time.Now().UTC()
	if automation.CreatedAt.IsZero() {
		automation.CreatedAt = now
	}

	automation.UpdatedAt = now

	return r.persistence.writeDocument(automationsDir, automation.ID, automation)
}

// Delete soft-deletes: the document stays on disk with a deletion marker so
// past executions keep a valid reference.
func (r *AutomationRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	automation, err := r.getByIDForOwnerLocked(id, ownerID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	automation.DeletedAt = &now
	automation.UpdatedAt = now

	return r.persistence.writeDocument(automationsDir, automation.ID, automation)
}

// IncrementStats applies one run's outcome to the aggregate counters. The
// process-wide mutex makes the read-update-write cycle atomic within this
// backend.
func (r *AutomationRepository) IncrementStats(ctx context.Context, id string, delta persistence.StatsDelta) error {
	r.persistence.mu.Lock()
	defer r.persistence.mu.Unlock()

	var automation models.Automation

	found, err := r.persistence.readDocument(automationsDir, id, &automation)
	if err != nil {
		return err
	}

	if !found {
		return persistence.ErrAutomationNotFound
	}

	automation.Stats.TotalExecutions++

	if delta.Success {
		automation.Stats.SuccessfulExecutions++
	} else {
		automation.Stats.FailedExecutions++
	}

	automation.Stats.LastExecutionStatus = delta.LastStatus
	lastAt := delta.LastAt
	automation.Stats.LastExecutionAt = &lastAt

	return r.persistence.writeDocument(automationsDir, automation.ID, &automation)
}
