package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liquidacion-api/internal/application/dto"
	appsettlement "github.com/jhoicas/liquidacion-api/internal/application/settlement"
	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
	"github.com/jhoicas/liquidacion-api/internal/infrastructure/excel"
	"github.com/jhoicas/liquidacion-api/pkg/logger"
)

// settlementService contrato que el handler necesita del caso de uso.
type settlementService interface {
	Compute(ctx context.Context, sessionID string, period entity.Period) (*appsettlement.Result, error)
	InvalidateCache(sessionID string, datasets []string) error
}

// SettlementHandler maneja los endpoints de liquidación.
type SettlementHandler struct {
	uc       settlementService
	exporter *excel.SettlementExporter
	log      *logger.Logger
	now      func() time.Time
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(uc settlementService, exporter *excel.SettlementExporter, log *logger.Logger) *SettlementHandler {
	return &SettlementHandler{uc: uc, exporter: exporter, log: log.Component("http"), now: time.Now}
}

// Get GET /api/settlements?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
// Sin fechas usa el mes en curso.
func (h *SettlementHandler) Get(c *fiber.Ctx) error {
	out, err := h.compute(c)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Export GET /api/settlements/export: mismo cálculo, como .xlsx adjunto.
func (h *SettlementHandler) Export(c *fiber.Ctx) error {
	out, err := h.compute(c)
	if err != nil {
		return h.writeError(c, err)
	}
	b, err := h.exporter.Export(out)
	if err != nil {
		h.log.Error().Err(err).Msg("exportar liquidación")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPORT_FAILED", Message: "no se pudo generar el archivo"})
	}
	c.Set(fiber.HeaderContentType, excel.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", h.exporter.FileName(out)))
	return c.Send(b)
}

// InvalidateCache POST /api/settlements/cache/invalidate
// Body {"datasets": [...], "all_sessions": bool}; datasets vacío invalida todos.
func (h *SettlementHandler) InvalidateCache(c *fiber.Ctx) error {
	var req dto.InvalidateCacheRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	session := GetSessionID(c)
	if req.AllSessions {
		session = ""
	}
	if err := h.uc.InvalidateCache(session, req.Datasets); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SettlementHandler) compute(c *fiber.Ctx) (dto.SettlementReportDTO, error) {
	session := GetSessionID(c)
	if session == "" {
		return dto.SettlementReportDTO{}, domain.ErrUnauthorized
	}
	var req dto.PeriodRequest
	if err := c.QueryParser(&req); err != nil {
		return dto.SettlementReportDTO{}, fmt.Errorf("%w: parámetros de consulta", domain.ErrInvalidInput)
	}
	period, err := ResolvePeriod(req, h.now())
	if err != nil {
		return dto.SettlementReportDTO{}, err
	}
	res, err := h.uc.Compute(c.UserContext(), session, period)
	if err != nil {
		return dto.SettlementReportDTO{}, err
	}
	return dto.NewSettlementReportDTO(res.ComputationID.String(), res.GeneratedAt, res.Report), nil
}

// ResolvePeriod aplica los valores por defecto: sin inicio, el primer día del mes de now;
// sin fin, el último día del mes del inicio.
func ResolvePeriod(req dto.PeriodRequest, now time.Time) (entity.Period, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if req.StartDate != "" {
		s, err := time.Parse(entity.DayLayout, req.StartDate)
		if err != nil {
			return entity.Period{}, fmt.Errorf("%w: start_date %q", domain.ErrInvalidPeriod, req.StartDate)
		}
		start = s
	}
	end := time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	if req.EndDate != "" {
		e, err := time.Parse(entity.DayLayout, req.EndDate)
		if err != nil {
			return entity.Period{}, fmt.Errorf("%w: end_date %q", domain.ErrInvalidPeriod, req.EndDate)
		}
		end = e
	}
	p, err := entity.NewPeriod(start, end)
	if err != nil {
		return entity.Period{}, fmt.Errorf("%w: %v", domain.ErrInvalidPeriod, err)
	}
	return p, nil
}

func (h *SettlementHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no encontrada en el token"})
	case errors.Is(err, domain.ErrInvalidPeriod), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BAD_REQUEST", Message: err.Error()})
	case errors.Is(err, domain.ErrSuperseded):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SUPERSEDED", Message: err.Error()})
	case domain.IsAdapterError(err):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "el almacén de registros no respondió; no se muestra una liquidación parcial"})
	}
	h.log.Error().Err(err).Str("path", c.Path()).Msg("error no esperado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
