// Package calendar provides the calendar-event-creation action.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/protocol"
	"github.com/freeflowhq/automation-engine/pkg/template"
	"github.com/google/uuid"
)

const defaultDurationMinutes = 30

var ErrTitleRequired = errors.New("missing or invalid 'title' in configuration")

// Action asks the calendar collaborator to create an event.
type Action struct {
	Title           string
	Start           string
	DurationMinutes int
	Attendees       []string
}

func NewAction(config map[string]any) (*Action, error) {
	title, ok := config["title"].(string)
	if !ok || title == "" {
		return nil, ErrTitleRequired
	}

	start, _ := config["start"].(string)

	duration := defaultDurationMinutes
	if v, ok := config["duration_minutes"].(float64); ok && v > 0 {
		duration = int(v)
	}

	var attendees []string

	if list, ok := config["attendees"].([]any); ok {
		for _, item := range list {
			if addr, ok := item.(string); ok {
				attendees = append(attendees, addr)
			}
		}
	}

	return &Action{Title: title, Start: start, DurationMinutes: duration, Attendees: attendees}, nil
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "create_calendar_event")

	title := template.Render(a.Title, executionCtx)
	start := template.Render(a.Start, executionCtx)

	attendees := make([]string, 0, len(a.Attendees))
	for _, addr := range a.Attendees {
		attendees = append(attendees, template.Render(addr, executionCtx))
	}

	logger.InfoContext(ctx, "Creating calendar event", "title", title, "start", start)

	return &protocol.Outcome{
		Success: true,
		Output: map[string]any{
			"event_id":         fmt.Sprintf("evt-%s", uuid.New().String()[:8]),
			"title":            title,
			"start":            start,
			"duration_minutes": a.DurationMinutes,
			"attendees":        attendees,
		},
	}, nil
}
