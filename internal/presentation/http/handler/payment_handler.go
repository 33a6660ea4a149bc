package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/application/service"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	"github.com/mateusallves/doceria-api/internal/domain/repository"
	"github.com/mateusallves/doceria-api/internal/presentation/http/dto/response"
	"github.com/mateusallves/doceria-api/pkg/pagination"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type createPaymentRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	Amount  float64   `json:"amount" binding:"required"`
	Method  string    `json:"method"`

	AmountPaid *float64 `json:"amount_paid"`

	CardBrand      *string `json:"card_brand"`
	CardLastDigits *string `json:"card_last_digits"`
	Installments   int     `json:"installments"`

	PixKey  *string `json:"pix_key"`
	Receipt *string `json:"receipt"`

	BarCode       *string `json:"bar_code"`
	DigitableLine *string `json:"digitable_line"`
	DueDate       *string `json:"due_date"`

	TransactionCode   *string `json:"transaction_code"`
	AuthorizationCode *string `json:"authorization_code"`
	NSU               *string `json:"nsu"`
	Notes             *string `json:"notes"`
}

func (r *createPaymentRequest) toInput() *service.CreatePaymentInput {
	return &service.CreatePaymentInput{
		OrderID:           r.OrderID,
		Amount:            r.Amount,
		Method:            enum.PaymentMethod(r.Method),
		AmountPaid:        r.AmountPaid,
		CardBrand:         r.CardBrand,
		CardLastDigits:    r.CardLastDigits,
		Installments:      r.Installments,
		PixKey:            r.PixKey,
		Receipt:           r.Receipt,
		BarCode:           r.BarCode,
		DigitableLine:     r.DigitableLine,
		DueDate:           r.DueDate,
		TransactionCode:   r.TransactionCode,
		AuthorizationCode: r.AuthorizationCode,
		NSU:               r.NSU,
		Notes:             r.Notes,
	}
}

// Create handles registering a payment attempt
func (h *PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment created successfully", payment)
}

// CreateCash handles registering a cash payment, confirmed on the spot
func (h *PaymentHandler) CreateCash(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.CreateCashPayment(c.Request.Context(), req.toInput(), GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash payment registered successfully", payment)
}

// CreatePix handles registering a PIX payment
func (h *PaymentHandler) CreatePix(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.CreatePixPayment(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "PIX payment created successfully", payment)
}

// CreateCard handles registering a card payment
func (h *PaymentHandler) CreateCard(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.CreateCardPayment(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Card payment created successfully", payment)
}

// Get handles getting a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// History handles listing a payment's audit trail
func (h *PaymentHandler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	entries, err := h.paymentService.GetPaymentHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment history retrieved successfully", entries)
}

// Confirm handles approving a pending payment
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req struct {
		TransactionCode   *string `json:"transaction_code"`
		AuthorizationCode *string `json:"authorization_code"`
		NSU               *string `json:"nsu"`
		Receipt           *string `json:"receipt"`
		Notes             *string `json:"notes"`
	}
	// The body is optional on confirm
	_ = c.ShouldBindJSON(&req)

	payment, err := h.paymentService.ConfirmPayment(c.Request.Context(), id, &service.ConfirmPaymentInput{
		TransactionCode:   req.TransactionCode,
		AuthorizationCode: req.AuthorizationCode,
		NSU:               req.NSU,
		Receipt:           req.Receipt,
		Notes:             req.Notes,
	}, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment confirmed successfully", payment)
}

// Refuse handles refusing a pending payment
func (h *PaymentHandler) Refuse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.RefusePayment(c.Request.Context(), id, req.Reason, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment refused successfully", payment)
}

// Reverse handles reversing an approved payment
func (h *PaymentHandler) Reverse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req struct {
		Reason        string   `json:"reason" binding:"required"`
		PartialAmount *float64 `json:"partial_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.ReversePayment(c.Request.Context(), id, req.Reason, req.PartialAmount, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment reversed successfully", payment)
}

// Cancel handles cancelling a pending payment
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.CancelPayment(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment cancelled successfully", payment)
}

// ListByOrder handles listing an order's payment attempts
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	payments, err := h.paymentService.ListOrderPayments(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", payments)
}

// GetApprovedByOrder handles getting an order's approved payment
func (h *PaymentHandler) GetApprovedByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	payment, err := h.paymentService.GetApprovedPayment(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// List handles listing payments with status/method filters
func (h *PaymentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.PaymentFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.PaymentStatus(statusStr)
		params.Status = &status
	}
	if methodStr := c.Query("method"); methodStr != "" {
		method := enum.PaymentMethod(methodStr)
		params.Method = &method
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// ListByCustomer handles listing payments across one customer's orders
func (h *PaymentHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	result, err := h.paymentService.ListCustomerPayments(c.Request.Context(), customerID, &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// EnsureForOrder handles creating the order's payment when none exists yet
func (h *PaymentHandler) EnsureForOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	payment, err := h.paymentService.EnsurePayment(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment ensured successfully", payment)
}

// Statistics handles the payment statistics report
func (h *PaymentHandler) Statistics(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	stats, err := h.paymentService.GetStatistics(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Statistics retrieved successfully", stats)
}

// Count handles counting payments, optionally by status
func (h *PaymentHandler) Count(c *gin.Context) {
	var status *enum.PaymentStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := enum.PaymentStatus(statusStr)
		status = &s
	}

	total, err := h.paymentService.CountPayments(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Count retrieved successfully", gin.H{"total": total})
}
