package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/application/service"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	"github.com/mateusallves/doceria-api/internal/domain/repository"
	"github.com/mateusallves/doceria-api/internal/presentation/http/dto/response"
	"github.com/mateusallves/doceria-api/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type orderItemRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
	KitID     *uuid.UUID `json:"kit_id"`
	Quantity  int        `json:"quantity"`
	Notes     *string    `json:"notes"`
}

// Create handles creating an order
func (h *OrderHandler) Create(c *gin.Context) {
	var req struct {
		CustomerID   uuid.UUID `json:"customer_id" binding:"required"`
		DeliveryType string    `json:"delivery_type"`
		DeliveryDate *string   `json:"delivery_date"`
		DeliveryTime *string   `json:"delivery_time"`

		DeliveryStreet     *string `json:"delivery_street"`
		DeliveryNumber     *string `json:"delivery_number"`
		DeliveryComplement *string `json:"delivery_complement"`
		DeliveryDistrict   *string `json:"delivery_district"`
		DeliveryCity       *string `json:"delivery_city"`
		DeliveryState      *string `json:"delivery_state"`
		DeliveryZip        *string `json:"delivery_zip"`
		UseCustomerAddress *bool   `json:"use_customer_address"`

		PaymentMethod *string  `json:"payment_method"`
		ChangeFor     *float64 `json:"change_for"`

		Discount    float64            `json:"discount"`
		DeliveryFee float64            `json:"delivery_fee"`
		Notes       *string            `json:"notes"`
		Items       []orderItemRequest `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemInput{
			ProductID: item.ProductID,
			KitID:     item.KitID,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
		}
	}

	input := &service.CreateOrderInput{
		CustomerID:         req.CustomerID,
		DeliveryType:       enum.DeliveryType(req.DeliveryType),
		DeliveryDate:       req.DeliveryDate,
		DeliveryTime:       req.DeliveryTime,
		DeliveryStreet:     req.DeliveryStreet,
		DeliveryNumber:     req.DeliveryNumber,
		DeliveryComplement: req.DeliveryComplement,
		DeliveryDistrict:   req.DeliveryDistrict,
		DeliveryCity:       req.DeliveryCity,
		DeliveryState:      req.DeliveryState,
		DeliveryZip:        req.DeliveryZip,
		UseCustomerAddress: true,
		ChangeFor:          req.ChangeFor,
		Discount:           req.Discount,
		DeliveryFee:        req.DeliveryFee,
		Notes:              req.Notes,
		Items:              items,
	}
	if req.UseCustomerAddress != nil {
		input.UseCustomerAddress = *req.UseCustomerAddress
	}
	if req.PaymentMethod != nil {
		method := enum.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// List handles listing orders with status/customer filters
func (h *OrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.OrderStatus(statusStr)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid order status")
			return
		}
		params.Status = &status
	}
	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		customerID, err := uuid.Parse(customerIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Get handles getting a single order
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// GetByNumber handles getting an order by its human-readable number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// ListByCustomer handles listing one customer's orders
func (h *OrderHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	orders, err := h.orderService.ListCustomerOrders(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Orders retrieved successfully", orders)
}

// ListPending handles listing orders still in flight
func (h *OrderHandler) ListPending(c *gin.Context) {
	orders, err := h.orderService.ListPendingOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Orders retrieved successfully", orders)
}

// ListToday handles listing today's orders; an optional date query overrides
// the day
func (h *OrderHandler) ListToday(c *gin.Context) {
	var day time.Time
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	orders, err := h.orderService.ListOrdersForDate(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Orders retrieved successfully", orders)
}

// Update handles partially updating an order
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		DeliveryType *string `json:"delivery_type"`
		DeliveryDate *string `json:"delivery_date"`
		DeliveryTime *string `json:"delivery_time"`

		DeliveryStreet     *string `json:"delivery_street"`
		DeliveryNumber     *string `json:"delivery_number"`
		DeliveryComplement *string `json:"delivery_complement"`
		DeliveryDistrict   *string `json:"delivery_district"`
		DeliveryCity       *string `json:"delivery_city"`
		DeliveryState      *string `json:"delivery_state"`
		DeliveryZip        *string `json:"delivery_zip"`

		PaymentMethod *string  `json:"payment_method"`
		Discount      *float64 `json:"discount"`
		DeliveryFee   *float64 `json:"delivery_fee"`
		Notes         *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateOrderInput{
		DeliveryDate:       req.DeliveryDate,
		DeliveryTime:       req.DeliveryTime,
		DeliveryStreet:     req.DeliveryStreet,
		DeliveryNumber:     req.DeliveryNumber,
		DeliveryComplement: req.DeliveryComplement,
		DeliveryDistrict:   req.DeliveryDistrict,
		DeliveryCity:       req.DeliveryCity,
		DeliveryState:      req.DeliveryState,
		DeliveryZip:        req.DeliveryZip,
		Discount:           req.Discount,
		DeliveryFee:        req.DeliveryFee,
		Notes:              req.Notes,
	}
	if req.DeliveryType != nil {
		deliveryType := enum.DeliveryType(*req.DeliveryType)
		input.DeliveryType = &deliveryType
	}
	if req.PaymentMethod != nil {
		method := enum.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order updated successfully", order)
}

// UpdateStatus handles updating order status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, enum.OrderStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}

// Cancel handles cancelling an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Reason *string `json:"reason"`
	}
	// The body is optional on cancel
	_ = c.ShouldBindJSON(&req)

	order, err := h.orderService.CancelOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", order)
}

// Statistics handles the order statistics report
func (h *OrderHandler) Statistics(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	stats, err := h.orderService.GetStatistics(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Statistics retrieved successfully", stats)
}

// Count handles counting orders, optionally by status
func (h *OrderHandler) Count(c *gin.Context) {
	var status *enum.OrderStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := enum.OrderStatus(statusStr)
		status = &s
	}

	total, err := h.orderService.CountOrders(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Count retrieved successfully", gin.H{"total": total})
}

// parseDateRange reads optional start_date/end_date query parameters. The end
// date is exclusive-shifted by one day so the range covers its whole last day.
func parseDateRange(c *gin.Context) (start, end *time.Time, ok bool) {
	if startStr := c.Query("start_date"); startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return nil, nil, false
		}
		start = &parsed
	}
	if endStr := c.Query("end_date"); endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return nil, nil, false
		}
		shifted := parsed.AddDate(0, 0, 1)
		end = &shifted
	}
	return start, end, true
}
