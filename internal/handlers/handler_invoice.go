package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	paymentService portssvc.PaymentReaderSvc
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade, ps portssvc.PaymentReaderSvc) *invoiceHandler {
	return &invoiceHandler{invoiceService: is, paymentService: ps}
}

// RegisterInvoiceRoutes registers routes related to invoices, including the
// per-invoice payment listing.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, paymentService portssvc.PaymentReaderSvc) {
	h := newInvoiceHandler(invoiceService, paymentService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.PUT("/:invoiceID", h.updateInvoice)
		invoices.DELETE("/:invoiceID", h.deleteInvoice)
		invoices.POST("/:invoiceID/status", h.changeStatus)
		invoices.POST("/:invoiceID/mark-paid", h.markAsPaid)
		invoices.GET("/:invoiceID/payments", h.listInvoicePayments)
	}
}

// createInvoice godoc
// @Summary Create a new invoice
// @Description Creates an invoice with its line items. The invoice number is allocated
// @Description from the company's yearly sequence (INV-YY-NNNNNN) and totals are computed server-side.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error or invalid line item"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 422 {object} dto.ErrorResponse "Unknown client or product"
// @Failure 503 {object} dto.ErrorResponse "Invoice number could not be allocated, retry"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Debug().Str("client_id", req.ClientID).Int("items", len(req.Items)).Msg("Received request to create invoice")

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, err, invoiceWriteOverrides)
		return
	}

	logger.Info().Str("invoice_id", invoice.InvoiceID).Str("invoice_number", invoice.InvoiceNumber).Msg("Invoice created")
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), companyID, c.Param("invoiceID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists the company's invoices, newest first. OVERDUE matches pending invoices past their due date.
// @Tags invoices
// @Produce  json
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Param   status query string false "DRAFT, PENDING, PAID, OVERDUE or CANCELLED"
// @Param   clientId query string false "Client ID"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	invoices, nextToken, err := h.invoiceService.ListInvoices(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListInvoicesResponse(invoices, nextToken))
}

// updateInvoice godoc
// @Summary Update an invoice
// @Description Updates header fields. A present items array replaces every line item and recomputes totals.
// @Description Only DRAFT and PENDING invoices can be edited.
// @Description Replaced items must not bring the total below the payments already recorded.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error or invalid line item"
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 409 {object} dto.ErrorResponse "Invoice is not editable"
// @Failure 422 {object} dto.ErrorResponse "Unknown client or product"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), companyID, c.Param("invoiceID"), req, userID)
	if err != nil {
		respondError(c, err, invoiceWriteOverrides)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Description Deletes the invoice and its items. Linked payments are kept without the invoice reference.
// @Tags invoices
// @Param   invoiceID path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	invoiceID := c.Param("invoiceID")
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), companyID, invoiceID); err != nil {
		respondError(c, err)
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info().Str("invoice_id", invoiceID).Msg("Invoice deleted")
	c.Status(http.StatusNoContent)
}

// changeStatus godoc
// @Summary Change the status of an invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   status body dto.UpdateInvoiceStatusRequest true "Target status"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/status [post]
func (h *invoiceHandler) changeStatus(c *gin.Context) {
	var req dto.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.ChangeStatus(c.Request.Context(), companyID, c.Param("invoiceID"), req.Status, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// markAsPaid godoc
// @Summary Mark an invoice as paid
// @Description Settles a PENDING invoice in full.
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Failure 409 {object} dto.ErrorResponse "Invoice is not pending"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/mark-paid [post]
func (h *invoiceHandler) markAsPaid(c *gin.Context) {
	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkAsPaid(c.Request.Context(), companyID, c.Param("invoiceID"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoicePayments godoc
// @Summary List the payments of an invoice
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 404 {object} dto.ErrorResponse "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/payments [get]
func (h *invoiceHandler) listInvoicePayments(c *gin.Context) {
	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	// Unknown or foreign invoices must surface as 404 rather than an empty page.
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), companyID, c.Param("invoiceID"))
	if err != nil {
		respondError(c, err)
		return
	}

	params.InvoiceID = invoice.InvoiceID
	params.ClientID = ""
	payments, nextToken, err := h.paymentService.ListPayments(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListPaymentsResponse(payments, nextToken))
}
