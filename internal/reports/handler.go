package reports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sales", h.Sales)
	r.Get("/today", h.Today)
	r.Get("/inventory-value", h.InventoryValue)
	r.Get("/top-products", h.TopProducts)
	r.Get("/payment-methods", h.PaymentMethods)
	r.Get("/profit", h.Profit)
	r.Get("/average-sale", h.AverageSale)
	r.Get("/products/{id}/history", h.ProductHistory)
}

// parseWindow reads optional ?from=&to= RFC3339 bounds. Both must be
// present for a window to apply.
func parseWindow(r *http.Request) (*time.Time, *time.Time, error) {
	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")
	if fromRaw == "" || toRaw == "" {
		return nil, nil, nil
	}
	from, err := time.Parse(time.RFC3339, fromRaw)
	if err != nil {
		return nil, nil, err
	}
	to, err := time.Parse(time.RFC3339, toRaw)
	if err != nil {
		return nil, nil, err
	}
	return &from, &to, nil
}

func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", "from and to must be RFC3339")
		return
	}
	if from == nil || to == nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", "from and to are required")
		return
	}
	report, err := h.service.SalesReport(r.Context(), *from, *to)
	if err != nil {
		h.logger.Error("sales report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.TodaysSales(r.Context())
	if err != nil {
		h.logger.Error("todays sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) InventoryValue(w http.ResponseWriter, r *http.Request) {
	value, err := h.service.InventoryValue(r.Context())
	if err != nil {
		h.logger.Error("inventory value", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, value)
}

func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", "from and to must be RFC3339")
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Limit", "limit must be a positive integer")
			return
		}
	}
	top, err := h.service.TopSellingProducts(r.Context(), limit, from, to)
	if err != nil {
		h.logger.Error("top products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, top)
}

func (h *Handler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", "from and to must be RFC3339")
		return
	}
	breakdown, err := h.service.SalesByPaymentMethod(r.Context(), from, to)
	if err != nil {
		h.logger.Error("payment methods", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, breakdown)
}

func (h *Handler) Profit(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", "from and to must be RFC3339")
		return
	}
	report, err := h.service.ProfitReport(r.Context(), from, to)
	if err != nil {
		h.logger.Error("profit report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) AverageSale(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", "from and to must be RFC3339")
		return
	}
	value, err := h.service.AverageSaleValue(r.Context(), from, to)
	if err != nil {
		h.logger.Error("average sale", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, value)
}

func (h *Handler) ProductHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "product id must be an integer")
		return
	}
	history, err := h.service.ProductSalesHistory(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, history)
}
