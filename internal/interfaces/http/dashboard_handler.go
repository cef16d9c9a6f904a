package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/pricing"
	"github.com/jhoicas/Gestion-api/internal/application/usecase"
)

// DashboardHandler resúmenes y analítica de solo lectura (protegido).
type DashboardHandler struct {
	uc      *usecase.DashboardUseCase
	advisor *pricing.Advisor
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase, advisor *pricing.Advisor) *DashboardHandler {
	return &DashboardHandler{uc: uc, advisor: advisor}
}

// Summary godoc
// @Summary      Resumen operativo del mes en curso
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context(), GetCompanyID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// PricingSuggestions godoc
// @Summary      Margen realizado vs. de lista por producto
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (RFC3339); por defecto hace 30 días"
// @Param        to    query  string  false  "Fecha final (RFC3339); por defecto ahora"
// @Success      200   {array}  dto.PricingSuggestionDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dashboard/pricing [get]
func (h *DashboardHandler) PricingSuggestions(c *fiber.Ctx) error {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		to = t
	}
	out, err := h.advisor.Suggestions(c.Context(), GetCompanyID(c), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
