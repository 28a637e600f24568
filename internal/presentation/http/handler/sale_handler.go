package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bochino693/Smart-Adega/internal/application/service"
	"github.com/Bochino693/Smart-Adega/internal/domain/enum"
	"github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"github.com/Bochino693/Smart-Adega/internal/presentation/http/dto/request"
	"github.com/Bochino693/Smart-Adega/internal/presentation/http/dto/response"
	"github.com/Bochino693/Smart-Adega/pkg/pagination"
)

// SaleHandler handles sale HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Finalize handles sale finalization
func (h *SaleHandler) Finalize(c *gin.Context) {
	var req request.FinalizeSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	lines := make([]service.SaleLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		productID, err := uuid.Parse(l.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product ID")
			return
		}
		line := service.SaleLineInput{
			ProductID: productID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
		for _, comp := range l.Complements {
			compID, err := uuid.Parse(comp.ProductID)
			if err != nil {
				response.BadRequest(c, "Invalid complement product ID")
				return
			}
			line.Complements = append(line.Complements, service.ComplementInput{
				Type:      enum.ComplementType(comp.Type),
				ProductID: compID,
				Quantity:  comp.Quantity,
			})
		}
		lines = append(lines, line)
	}

	input := &service.FinalizeSaleInput{
		UserID:         GetUserID(c),
		CustomerName:   req.CustomerName,
		Method:         enum.PaymentMethod(req.Method),
		Discount:       req.Discount,
		Lines:          lines,
		AmountReceived: req.AmountReceived,
	}

	result, err := h.saleService.FinalizeSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale finalized", result)
}

// Settle handles the pending-to-settled transition
func (h *SaleHandler) Settle(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.SettlePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.SettlePayment(c.Request.Context(), id, enum.PaymentMethod(req.Method))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale settled", sale)
}

// Get handles retrieving a sale with its lines
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved", sale)
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}
	if filter.Method != "" {
		method := enum.PaymentMethod(filter.Method)
		if !method.Valid() {
			response.BadRequest(c, "Unknown payment method")
			return
		}
		params.Method = &method
	}
	if filter.From != "" {
		if from, err := time.ParseInLocation(dateLayout, filter.From, time.Local); err == nil {
			params.From = &from
		}
	}
	if filter.To != "" {
		if to, err := time.ParseInLocation(dateLayout, filter.To, time.Local); err == nil {
			// Inclusive upper bound: the whole day counts
			end := to.AddDate(0, 0, 1)
			params.To = &end
		}
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved", result)
}
