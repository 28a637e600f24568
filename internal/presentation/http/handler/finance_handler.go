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

// FinanceHandler handles expense and monthly closing HTTP requests
type FinanceHandler struct {
	financeService *service.FinanceService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(financeService *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

func expenseInput(req *request.ExpenseRequest) (*service.ExpenseInput, bool) {
	input := &service.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, false
		}
		input.CategoryID = &categoryID
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		return nil, false
	}
	input.Date = date
	return input, true
}

// CreateExpense handles expense creation
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req request.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	input, ok := expenseInput(&req)
	if !ok {
		response.BadRequest(c, "Invalid category ID or date")
		return
	}

	expense, err := h.financeService.CreateExpense(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense created", expense)
}

// UpdateExpense handles expense updates
func (h *FinanceHandler) UpdateExpense(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid expense ID")
		return
	}

	var req request.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	input, inputOK := expenseInput(&req)
	if !inputOK {
		response.BadRequest(c, "Invalid category ID or date")
		return
	}

	expense, err := h.financeService.UpdateExpense(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense updated", expense)
}

// DeleteExpense handles expense deletion
func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid expense ID")
		return
	}

	if err := h.financeService.DeleteExpense(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListExpenses handles listing expenses
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	var filter request.ExpenseFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ExpenseFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Month: filter.Month,
		Year:  filter.Year,
	}
	if filter.CategoryID != "" {
		categoryID, err := uuid.Parse(filter.CategoryID)
		if err == nil {
			params.CategoryID = &categoryID
		}
	}

	result, err := h.financeService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Expenses retrieved", result)
}

// CreateExpenseCategory handles expense category creation
func (h *FinanceHandler) CreateExpenseCategory(c *gin.Context) {
	var req request.ExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.financeService.CreateExpenseCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense category created", category)
}

// ListExpenseCategories handles listing expense categories
func (h *FinanceHandler) ListExpenseCategories(c *gin.Context) {
	categories, err := h.financeService.ListExpenseCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expense categories retrieved", categories)
}

// DeleteExpenseCategory handles expense category deletion
func (h *FinanceHandler) DeleteExpenseCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.financeService.DeleteExpenseCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListClosings handles listing monthly closings
func (h *FinanceHandler) ListClosings(c *gin.Context) {
	closings, err := h.financeService.ListClosings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Closings retrieved", closings)
}

// GetClosing handles retrieving one month's closing, computing it on demand
func (h *FinanceHandler) GetClosing(c *gin.Context) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		response.BadRequest(c, "Invalid month")
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.BadRequest(c, "Invalid year")
		return
	}

	closing, svcErr := h.financeService.GetClosing(c.Request.Context(), month, year)
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}

	response.OK(c, "Closing retrieved", closing)
}

// Recompute handles an explicit monthly recompute
func (h *FinanceHandler) Recompute(c *gin.Context) {
	var req request.RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	closing, err := h.financeService.Recompute(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Closing recomputed", closing)
}
