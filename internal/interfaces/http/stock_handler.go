package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/application/dto"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
	"github.com/prassaaa/dashboard-rokokgs-sub000/pkg/logger"
)

// stockService contrato que consume el handler; lo implementa *inventory.StockUseCase.
type stockService interface {
	AdjustStock(ctx context.Context, actor *entity.Actor, stockID string, in dto.AdjustStockRequest) (*dto.StockMutationResponse, error)
	InitializeStock(ctx context.Context, actor *entity.Actor, in dto.InitializeStockRequest) (*dto.StockMutationResponse, error)
	GetStock(ctx context.Context, actor *entity.Actor, stockID string) (*dto.StockResponse, error)
	ListStock(ctx context.Context, actor *entity.Actor, q dto.ListStockQuery) (*dto.Page[dto.StockResponse], error)
	ListLowStock(ctx context.Context, actor *entity.Actor, branchID string, page int) (*dto.Page[dto.StockResponse], error)
	GetMovementHistory(ctx context.Context, actor *entity.Actor, stockID string, page int) (*dto.Page[dto.MovementResponse], error)
}

// StockHandler maneja las peticiones HTTP de stock por sucursal (protegido).
type StockHandler struct {
	uc  stockService
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc stockService, log *logger.Logger) *StockHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &StockHandler{uc: uc, log: log.Component("http")}
}

// List godoc
// @Summary      Listar stock
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (ignorado para usuarios de sucursal)"
// @Param        low_stock  query  bool    false  "Solo stock en o bajo el mínimo"
// @Param        search     query  string  false  "Nombre o código de producto"
// @Param        sort       query  string  false  "quantity_asc | quantity_desc | product_name | updated_desc"
// @Param        page       query  int     false  "Página (1 por defecto)"
// @Success      200  {object}  dto.Page[dto.StockResponse]
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stocks [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var q dto.ListStockQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page, err := h.uc.ListStock(c.UserContext(), GetActor(c), q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(page)
}

// ListLow godoc
// @Summary      Stock bajo el mínimo
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (ignorado para usuarios de sucursal)"
// @Param        page       query  int     false  "Página"
// @Success      200  {object}  dto.Page[dto.StockResponse]
// @Router       /api/stocks/low [get]
func (h *StockHandler) ListLow(c *fiber.Ctx) error {
	page, err := h.uc.ListLowStock(c.UserContext(), GetActor(c), c.Query("branch_id"), c.QueryInt("page", 1))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(page)
}

// Initialize godoc
// @Summary      Inicializar stock de un producto en una sucursal
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitializeStockRequest  true  "product_id, branch_id, quantity, minimum_stock"
// @Success      201  {object}  dto.StockMutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stocks [post]
func (h *StockHandler) Initialize(c *fiber.Ctx) error {
	var in dto.InitializeStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := in.Validate(); err != nil {
		return h.fail(c, err)
	}
	res, err := h.uc.InitializeStock(c.UserContext(), GetActor(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Get godoc
// @Summary      Obtener stock
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del stock"
// @Success      200  {object}  dto.StockResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	res, err := h.uc.GetStock(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  quantity_change positivo suma y negativo resta; la cantidad nunca baja de cero.
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del stock"
// @Param        body  body  dto.AdjustStockRequest  true  "quantity_change, notes"
// @Success      200  {object}  dto.StockMutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := in.Validate(); err != nil {
		return h.fail(c, err)
	}
	res, err := h.uc.AdjustStock(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}

// Movements godoc
// @Summary      Historial de movimientos del stock
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del stock"
// @Param        page  query  int     false  "Página"
// @Success      200  {object}  dto.Page[dto.MovementResponse]
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	res, err := h.uc.GetMovementHistory(c.UserContext(), GetActor(c), c.Params("id"), c.QueryInt("page", 1))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}

func (h *StockHandler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrStorage) || !domain.IsDomainError(err) {
		h.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	}
	return respondError(c, err)
}
