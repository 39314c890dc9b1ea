package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/middleware"
	"github.com/SscSPs/invoicing_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// RegisterPaymentRoutes registers routes related to payments.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.recordPayment)
		payments.GET("", h.listPayments)
		payments.GET("/:paymentID", h.getPayment)
		payments.DELETE("/:paymentID", h.deletePayment)
	}
}

// recordPayment godoc
// @Summary Record a payment
// @Description Records money received from a client, optionally against a PENDING invoice.
// @Description The invoice's amount paid and amount due are recomputed; its status is not changed.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error or amount exceeds the amount due"
// @Failure 404 {object} dto.ErrorResponse "Invoice or client not found"
// @Failure 409 {object} dto.ErrorResponse "Invoice is not pending"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info().
		Str("payment_id", payment.PaymentID).
		Str("amount", utils.FormatMoney(payment.Amount)).
		Msg("Payment recorded")
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// getPayment godoc
// @Summary Get a payment by ID
// @Tags payments
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Security BearerAuth
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), companyID, c.Param("paymentID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List payments
// @Tags payments
// @Produce  json
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Param   invoiceId query string false "Invoice ID"
// @Param   clientId query string false "Client ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	payments, nextToken, err := h.paymentService.ListPayments(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListPaymentsResponse(payments, nextToken))
}

// deletePayment godoc
// @Summary Delete a payment
// @Description Removes the payment and recomputes the linked invoice. Payments of paid or cancelled invoices cannot be deleted.
// @Tags payments
// @Param   paymentID path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 409 {object} dto.ErrorResponse "Invoice already settled"
// @Security BearerAuth
// @Router /payments/{paymentID} [delete]
func (h *paymentHandler) deletePayment(c *gin.Context) {
	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	paymentID := c.Param("paymentID")
	if err := h.paymentService.DeletePayment(c.Request.Context(), companyID, paymentID, userID); err != nil {
		respondError(c, err)
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info().Str("payment_id", paymentID).Msg("Payment deleted")
	c.Status(http.StatusNoContent)
}
