package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/api/dto"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/auth"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/service"
)

// ShiftsHandler exposes the shift transition surface.
type ShiftsHandler struct {
	shifts *service.ShiftService
}

// NewShiftsHandler constructs handler.
func NewShiftsHandler(shifts *service.ShiftService) *ShiftsHandler {
	return &ShiftsHandler{shifts: shifts}
}

func actorFrom(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return service.Actor{ID: principal.ID(), Role: principal.Role().ActorRole()}, nil
}

// AvailableTransitions handles GET /shifts/:id/transitions.
func (h *ShiftsHandler) AvailableTransitions(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	statuses, err := h.shifts.AvailableTransitions(c.UserContext(), c.Params("id"), actor)
	if err != nil {
		return err
	}
	views := make([]dto.StatusView, 0, len(statuses))
	for _, s := range statuses {
		views = append(views, dto.NewStatusView(s))
	}
	return c.JSON(fiber.Map{"data": views})
}

// Transition handles POST /shifts/:id/transitions.
func (h *ShiftsHandler) Transition(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	outcome, err := h.shifts.Transition(c.UserContext(), service.TransitionInput{
		ShiftID: c.Params("id"),
		To:      domain.ShiftStatus(req.To),
		Reason:  req.Reason,
		Actor:   actor,
	})
	if err != nil {
		return err
	}

	trustIDs := make([]string, 0, len(outcome.TrustEvents))
	for _, e := range outcome.TrustEvents {
		trustIDs = append(trustIDs, e.ID)
	}
	return c.JSON(fiber.Map{"data": dto.TransitionResponse{
		ShiftID:       outcome.Shift.ID,
		Status:        dto.NewStatusView(outcome.Shift.Status),
		HistoryID:     outcome.History.ID,
		Effects:       dto.NewEffectViews(outcome.Effects),
		TrustEventIDs: trustIDs,
	}})
}

// History handles GET /shifts/:id/history.
func (h *ShiftsHandler) History(c *fiber.Ctx) error {
	rows, err := h.shifts.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryEntries(rows)})
}
