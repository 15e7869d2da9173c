package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
	"github.com/freeflowhq/automation-engine/pkg/registry"
	"github.com/freeflowhq/automation-engine/pkg/runner"
)

// Caller identity headers, resolved by an upstream gateway. Authentication
// itself is out of scope here.
const (
	UserIDHeader    = "X-User-ID"
	UserEmailHeader = "X-User-Email"
)

type APIHandlers struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	runner      *runner.Runner
	validator   *validator.Validate
}

func NewAPIHandlers(
	persistence persistence.Persistence,
	registry *registry.Registry,
	runner *runner.Runner,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		persistence: persistence,
		registry:    registry,
		runner:      runner,
		validator:   validator,
	}
}

func (h *APIHandlers) callerID(c fiber.Ctx) string {
	return c.Get(UserIDHeader)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	err := h.persistence.HealthCheck(c.Context())

	status := "healthy"
	httpStatus := http.StatusOK

	if err != nil {
		status = "unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) ListAutomations(c fiber.Ctx) error {
	userID := h.callerID(c)
	if userID == "" {
		return badRequest(c, "X-User-ID header is required")
	}

	automations, err := h.persistence.AutomationRepository().List(c.Context(), userID)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"automations": automations,
		"total_count": len(automations),
	})
}

func (h *APIHandlers) GetAutomation(c fiber.Ctx) error {
	userID := h.callerID(c)
	if userID == "" {
		return badRequest(c, "X-User-ID header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Automation ID is required")
	}

	automation, err := h.persistence.AutomationRepository().GetByIDForOwner(c.Context(), id, userID)
	if err != nil {
		if persistence.IsAutomationNotFound(err) {
			return notFound(c, "Automation not found")
		}

		return internalError(c, err)
	}

	return c.JSON(automation)
}

func (h *APIHandlers) CreateAutomation(c fiber.Ctx) error {
	userID := h.callerID(c)
	if userID == "" {
		return badRequest(c, "X-User-ID header is required")
	}

	var req CreateAutomationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	steps := make([]*models.Step, 0, len(req.Steps))

	for _, stepReq := range req.Steps {
		err := h.registry.ValidateConfig(stepReq.Type, stepReq.Config)
		if err != nil {
			return badRequest(c, err.Error())
		}

		steps = append(steps, &models.Step{
			Type:   stepReq.Type,
			Name:   stepReq.Name,
			Config: stepReq.Config,
		})
	}

	automation := &models.Automation{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Steps:       steps,
	}

	err := h.persistence.AutomationRepository().Save(c.Context(), automation)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(automation)
}

func (h *APIHandlers) DeleteAutomation(c fiber.Ctx) error {
	userID := h.callerID(c)
	if userID == "" {
		return badRequest(c, "X-User-ID header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Automation ID is required")
	}

	err := h.persistence.AutomationRepository().Delete(c.Context(), id, userID)
	if err != nil {
		if persistence.IsAutomationNotFound(err) {
			return notFound(c, "Automation not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RunAutomation executes an automation synchronously and returns the run
// summary. Step-level failures are reported inside the summary, never as an
// HTTP error.
func (h *APIHandlers) RunAutomation(c fiber.Ctx) error {
	userID := h.callerID(c)
	if userID == "" {
		return badRequest(c, "X-User-ID header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Automation ID is required")
	}

	var req RunAutomationRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	summary, err := h.runner.Run(c.Context(), id, userID, c.Get(UserEmailHeader), req.TriggerData)
	if err != nil {
		if persistence.IsAutomationNotFound(err) {
			return notFound(c, "Automation not found")
		}

		return internalError(c, err)
	}

	return c.JSON(summary)
}

func (h *APIHandlers) ListExecutions(c fiber.Ctx) error {
	userID := h.callerID(c)
	if userID == "" {
		return badRequest(c, "X-User-ID header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Automation ID is required")
	}

	// Ownership check before exposing the run history.
	_, err := h.persistence.AutomationRepository().GetByIDForOwner(c.Context(), id, userID)
	if err != nil {
		if persistence.IsAutomationNotFound(err) {
			return notFound(c, "Automation not found")
		}

		return internalError(c, err)
	}

	executions, err := h.persistence.ExecutionRepository().ListByAutomation(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"executions":  executions,
		"total_count": len(executions),
	})
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	userID := h.callerID(c)
	if userID == "" {
		return badRequest(c, "X-User-ID header is required")
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	execution, err := h.persistence.ExecutionRepository().GetByID(c.Context(), id)
	if err != nil {
		if persistence.IsExecutionNotFound(err) {
			return notFound(c, "Execution not found")
		}

		return internalError(c, err)
	}

	_, err = h.persistence.AutomationRepository().GetByIDForOwner(c.Context(), execution.AutomationID, userID)
	if err != nil {
		if persistence.IsAutomationNotFound(err) {
			return notFound(c, "Execution not found")
		}

		return internalError(c, err)
	}

	actionLogs, err := h.persistence.ActionLogRepository().ListByExecution(c.Context(), execution.ID)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(ExecutionDetailResponse{
		Execution:  execution,
		ActionLogs: actionLogs,
	})
}

// ListActionTypes exposes the registered step types so authoring surfaces can
// discover what the engine supports.
func (h *APIHandlers) ListActionTypes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"action_types": h.registry.AvailableActions(),
	})
}
