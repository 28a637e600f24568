package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bochino693/Smart-Adega/internal/application/service"
	"github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"github.com/Bochino693/Smart-Adega/internal/presentation/http/dto/request"
	"github.com/Bochino693/Smart-Adega/internal/presentation/http/dto/response"
	"github.com/Bochino693/Smart-Adega/pkg/pagination"
)

const dateLayout = "2006-01-02"

// StockHandler handles stock ledger HTTP requests
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

func addStockInput(req *request.AddStockRequest) (*service.AddStockInput, bool) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, false
	}
	input := &service.AddStockInput{
		ProductID: productID,
		Quantity:  req.Quantity,
	}
	if req.Expiry != "" {
		expiry, err := time.ParseInLocation(dateLayout, req.Expiry, time.Local)
		if err != nil {
			return nil, false
		}
		input.Expiry = &expiry
	}
	return input, true
}

// AddStock handles a single stock intake
func (h *StockHandler) AddStock(c *gin.Context) {
	var req request.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	input, ok := addStockInput(&req)
	if !ok {
		response.BadRequest(c, "Invalid product ID or expiry date")
		return
	}

	batch, err := h.stockService.AddStock(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock added", batch)
}

// BulkAddStock handles a multi-product intake
func (h *StockHandler) BulkAddStock(c *gin.Context) {
	var req request.BulkAddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	inputs := make([]service.AddStockInput, 0, len(req.Items))
	for _, item := range req.Items {
		input, ok := addStockInput(&item)
		if !ok {
			response.BadRequest(c, "Invalid product ID or expiry date")
			return
		}
		inputs = append(inputs, *input)
	}

	batches, err := h.stockService.BulkAddStock(c.Request.Context(), inputs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock added", batches)
}

// DeductStock handles a manual write-down
func (h *StockHandler) DeductStock(c *gin.Context) {
	var req request.DeductStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	deducted, err := h.stockService.DeductStock(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock deducted", gin.H{"deducted": deducted})
}

// BulkDeductStock handles a multi-product write-down
func (h *StockHandler) BulkDeductStock(c *gin.Context) {
	var req request.BulkDeductStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	inputs := make([]service.DeductStockInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product ID")
			return
		}
		inputs = append(inputs, service.DeductStockInput{ProductID: productID, Quantity: item.Quantity})
	}

	results, err := h.stockService.BulkDeductStock(c.Request.Context(), inputs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock deducted", results)
}

// ListBatches handles the stock overview
func (h *StockHandler) ListBatches(c *gin.Context) {
	var filter request.BatchFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.BatchFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}
	if filter.ProductID != "" {
		productID, err := uuid.Parse(filter.ProductID)
		if err == nil {
			params.ProductID = &productID
		}
	}

	result, err := h.stockService.ListBatches(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Batches retrieved", result)
}

// ListWithdrawals handles the withdrawal history
func (h *StockHandler) ListWithdrawals(c *gin.Context) {
	var filter request.WithdrawalFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.WithdrawalFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}
	if filter.ProductID != "" {
		productID, err := uuid.Parse(filter.ProductID)
		if err == nil {
			params.ProductID = &productID
		}
	}
	if filter.From != "" {
		if from, err := time.ParseInLocation(dateLayout, filter.From, time.Local); err == nil {
			params.From = &from
		}
	}
	if filter.To != "" {
		if to, err := time.ParseInLocation(dateLayout, filter.To, time.Local); err == nil {
			params.To = &to
		}
	}

	result, err := h.stockService.ListWithdrawals(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Withdrawals retrieved", result)
}

// ShoppingList handles the low-stock shopping list; threshold defaults to zero
// meaning only out-of-stock products
func (h *StockHandler) ShoppingList(c *gin.Context) {
	threshold := 0
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.BadRequest(c, "Invalid threshold")
			return
		}
		threshold = parsed
	}

	items, err := h.stockService.ShoppingList(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shopping list retrieved", items)
}
