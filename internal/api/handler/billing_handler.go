package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
	"github.com/sactel/admin-console/internal/pkg/metrics"
)

// BillingHandler serves the data service: dashboard, rooms, invoices and
// transactions.
type BillingHandler struct {
	service  ports.BillingService
	activity ports.ActivityRecorder
	log      zerolog.Logger
}

// NewBillingHandler builds the handler. activity may be nil.
func NewBillingHandler(service ports.BillingService, activity ports.ActivityRecorder, log zerolog.Logger) *BillingHandler {
	return &BillingHandler{service: service, activity: recorderOrNop(activity), log: log}
}

// DashboardStats handles GET /dashboard/stats.
//
// @Summary      Dashboard summary
// @Tags         data
// @Produce      json
// @Success      200  {object}  domain.DashboardStats
// @Failure      500  {object}  errorResponse
// @Router       /dashboard/stats [get]
func (h *BillingHandler) DashboardStats(c echo.Context) error {
	stats, err := h.service.DashboardStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ListRooms handles GET /habitaciones.
//
// @Summary      List rooms
// @Tags         data
// @Produce      json
// @Success      200  {array}   domain.Room
// @Router       /habitaciones [get]
func (h *BillingHandler) ListRooms(c echo.Context) error {
	rooms, err := h.service.ListRooms(c.Request().Context())
	if err != nil {
		return err
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	return c.JSON(http.StatusOK, rooms)
}

// PatchRoom handles PATCH /habitaciones/:id.
//
// @Summary      Update a room
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Room id"
// @Param        body  body      patchRoomRequest  true  "Fields to change"
// @Success      200   {object}  domain.Room
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /habitaciones/{id} [patch]
func (h *BillingHandler) PatchRoom(c echo.Context) error {
	var req patchRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	room, err := h.service.PatchRoom(c.Request().Context(), c.Param("id"), toRoomPatch(req))
	if err != nil {
		return err
	}

	metrics.RoomUpdatesTotal.WithLabelValues(string(room.Estado)).Inc()
	h.activity.Enqueue(ports.ActivityInput{
		Kind:     domain.ActivityRoomUpdated,
		EntityID: room.ID,
		Actor:    actor(c),
		Summary:  fmt.Sprintf("habitación %s: %s", room.Numero, describePatch(req)),
	})
	return c.JSON(http.StatusOK, room)
}

// ListInvoices handles GET /facturas.
//
// @Summary      List invoices
// @Tags         data
// @Produce      json
// @Success      200  {array}   domain.Invoice
// @Router       /facturas [get]
func (h *BillingHandler) ListInvoices(c echo.Context) error {
	invoices, err := h.service.ListInvoices(c.Request().Context())
	if err != nil {
		return err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return c.JSON(http.StatusOK, invoices)
}

// CreateInvoice handles POST /facturas. A repeated Idempotency-Key returns
// the invoice created the first time with 200 instead of 201.
//
// @Summary      Create an invoice
// @Tags         data
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createInvoiceRequest  true   "Invoice draft"
// @Success      201              {object}  domain.Invoice
// @Success      200              {object}  domain.Invoice
// @Failure      400              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /facturas [post]
func (h *BillingHandler) CreateInvoice(c echo.Context) error {
	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key := c.Request().Header.Get("Idempotency-Key")
	res, err := h.service.CreateInvoice(c.Request().Context(), toCreateInvoiceInput(req, key))
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		return c.JSON(http.StatusOK, res.Invoice)
	}

	who := actor(c)
	log := h.log.Info().Str("numero", res.Invoice.Numero).Str("estado", string(res.Invoice.Estado))
	if who != "" {
		log = log.Str("created_by", who)
	}
	log.Msg("invoice created")

	metrics.InvoicesCreatedTotal.WithLabelValues(string(res.Invoice.Estado)).Inc()
	h.activity.Enqueue(ports.ActivityInput{
		Kind:     domain.ActivityInvoiceCreated,
		EntityID: res.Invoice.ID,
		Actor:    who,
		Summary:  fmt.Sprintf("factura %s a %s por %.2f (%s)", res.Invoice.Numero, res.Invoice.Cliente, res.Invoice.Total, res.Invoice.Estado),
	})
	return c.JSON(http.StatusCreated, res.Invoice)
}

// ListTransactions handles GET /transacciones.
//
// @Summary      List ledger movements
// @Tags         data
// @Produce      json
// @Success      200  {array}   domain.Transaction
// @Router       /transacciones [get]
func (h *BillingHandler) ListTransactions(c echo.Context) error {
	txs, err := h.service.ListTransactions(c.Request().Context())
	if err != nil {
		return err
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return c.JSON(http.StatusOK, txs)
}

func describePatch(req patchRoomRequest) string {
	var parts []string
	if req.Estado != nil {
		parts = append(parts, "estado="+*req.Estado)
	}
	if req.Tipo != nil {
		parts = append(parts, "tipo="+*req.Tipo)
	}
	if req.Precio != nil {
		parts = append(parts, fmt.Sprintf("precio=%.2f", *req.Precio))
	}
	return strings.Join(parts, ", ")
}
