// Package file provides file-based persistence for automations, executions
// and action logs. It is meant for development and tests; a process-wide
// mutex stands in for the database-level atomicity the SQL backend provides.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/freeflowhq/automation-engine/pkg/persistence"
)

// Persistence implements persistence.Persistence on top of JSON documents
// under a root directory.
type Persistence struct {
	root           string
	mu             sync.RWMutex
	automationRepo *AutomationRepository
	executionRepo  *ExecutionRepository
	actionLogRepo  *ActionLogRepository
}

func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	p := &Persistence{root: cleanRoot}
	p.automationRepo = &AutomationRepository{persistence: p}
	p.executionRepo = &ExecutionRepository{persistence: p}
	p.actionLogRepo = &ActionLogRepository{persistence: p}

	return p
}

func (p *Persistence) AutomationRepository() persistence.AutomationRepository {
	return p.automationRepo
}

func (p *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return p.executionRepo
}

func (p *Persistence) ActionLogRepository() persistence.ActionLogRepository {
	return p.actionLogRepo
}

// Close performs any necessary cleanup. For file-based persistence, there is
// nothing to clean up.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (p *Persistence) writeDocument(dir, id string, v any) error {
	fullDir := filepath.Join(p.root, dir)

	err := os.MkdirAll(fullDir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fullDir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	path := filepath.Join(fullDir, id+".json")

	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}

	return nil
}

func (p *Persistence) readDocument(dir, id string, v any) (bool, error) {
	path := filepath.Join(p.root, dir, id+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	err = json.Unmarshal(data, v)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal document %s: %w", path, err)
	}

	return true, nil
}

func (p *Persistence) listDocumentIDs(dir string) ([]string, error) {
	fullDir := filepath.Join(p.root, dir)

	entries, err := os.ReadDir(fullDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list directory %s: %w", fullDir, err)
	}

	ids := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}

	return ids, nil
}
