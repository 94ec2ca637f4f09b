package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/api/dto"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/auth"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/trust"
	apperrors "github.com/artemdali21-ship-it/shef-montazh-sub002/pkg/util"
)

// TrustEngine is the trust surface served over HTTP. *trust.Engine implements it.
type TrustEngine interface {
	CreateTrustEvent(ctx context.Context, input trust.CreateEventInput) *domain.TrustEvent
	TrustScore(ctx context.Context, userID string) int
	EventHistory(ctx context.Context, userID string, limit int) []domain.TrustEvent
	CanPerformAction(ctx context.Context, userID string, action trust.Action) trust.Decision
	SuspiciousUsers(ctx context.Context) ([]domain.SuspiciousUser, error)
	ClearSuspiciousFlag(ctx context.Context, userID string) error
	UnblockUser(ctx context.Context, userID string) error
}

// TrustHandler exposes scores, history, gating and moderation.
type TrustHandler struct {
	engine       TrustEngine
	historyLimit int
}

// NewTrustHandler constructs handler. historyLimit applies when ?limit is absent.
func NewTrustHandler(engine TrustEngine, historyLimit int) *TrustHandler {
	return &TrustHandler{engine: engine, historyLimit: historyLimit}
}

// Score handles GET /trust/users/:id/score.
func (h *TrustHandler) Score(c *fiber.Ctx) error {
	userID := c.Params("id")
	return c.JSON(fiber.Map{"data": dto.NewScoreResponse(userID, h.engine.TrustScore(c.UserContext(), userID))})
}

// History handles GET /trust/users/:id/history. Callers see their own history; admins see anyone's.
func (h *TrustHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	userID := c.Params("id")
	if principal.ID() != userID && principal.Role() != domain.UserRoleAdmin {
		return apperrors.NewForbidden("trust history is private")
	}

	limit := c.QueryInt("limit", h.historyLimit)
	events := h.engine.EventHistory(c.UserContext(), userID, limit)
	out := make([]dto.TrustEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.NewTrustEventResponse(e))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Recommendations handles GET /trust/me/recommendations.
func (h *TrustHandler) Recommendations(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	score := h.engine.TrustScore(c.UserContext(), principal.ID())
	return c.JSON(fiber.Map{"data": dto.RecommendationsResponse{
		ScoreResponse:   dto.NewScoreResponse(principal.ID(), score),
		Recommendations: trust.ScoreRecommendations(score, principal.Role()),
	}})
}

// CanPerform handles GET /trust/me/actions/:action.
func (h *TrustHandler) CanPerform(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	action := trust.Action(c.Params("action"))
	if _, known := trust.Threshold(action); !known {
		return apperrors.NewValidationError("unknown action", map[string]any{"action": action})
	}
	decision := h.engine.CanPerformAction(c.UserContext(), principal.ID(), action)
	return c.JSON(fiber.Map{"data": dto.DecisionResponse{
		Action:  string(action),
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
	}})
}

// CreateEvent handles POST /trust/events.
func (h *TrustHandler) CreateEvent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	var req dto.CreateTrustEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	eventType := domain.TrustEventType(req.EventType)
	if _, known := trust.Lookup(eventType); !known {
		return apperrors.NewValidationError("unknown event type", map[string]any{"event_type": req.EventType})
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["recorded_by"] = principal.ID()

	event := h.engine.CreateTrustEvent(c.UserContext(), trust.CreateEventInput{
		UserID:       req.UserID,
		EventType:    eventType,
		ShiftID:      req.ShiftID,
		Description:  req.Description,
		Metadata:     metadata,
		CustomImpact: req.CustomImpact,
	})
	if event == nil {
		return apperrors.NewDomainError("TRUST_EVENT_NOT_RECORDED", "trust event could not be recorded", http.StatusServiceUnavailable, nil)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTrustEventResponse(*event)})
}

// Suspicious handles GET /moderation/suspicious.
func (h *TrustHandler) Suspicious(c *fiber.Ctx) error {
	users, err := h.engine.SuspiciousUsers(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.SuspiciousUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.SuspiciousUserResponse{
			UserID:     u.UserID,
			Name:       u.Name,
			Role:       string(u.Role),
			IsBlocked:  u.IsBlocked,
			TrustScore: u.TrustScore,
			FlaggedAt:  u.FlaggedAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// ClearSuspicious handles POST /moderation/users/:id/clear-suspicious.
func (h *TrustHandler) ClearSuspicious(c *fiber.Ctx) error {
	if err := h.engine.ClearSuspiciousFlag(c.UserContext(), c.Params("id")); err != nil {
		return moderationError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Unblock handles POST /moderation/users/:id/unblock.
func (h *TrustHandler) Unblock(c *fiber.Ctx) error {
	if err := h.engine.UnblockUser(c.UserContext(), c.Params("id")); err != nil {
		return moderationError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func moderationError(err error) error {
	if errors.Is(err, trust.ErrNoProfile) {
		return apperrors.NewValidationError("account has no moderated profile", nil)
	}
	return err
}
