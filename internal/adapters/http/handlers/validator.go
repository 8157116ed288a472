// Package handlers contains the REST API's HTTP handlers.
//
// A handler is an Adapter in Clean Architecture terms:
// - accepts the HTTP request
// - translates it into a Command/Query DTO
// - calls a use case
// - translates the result into an HTTP response
package handlers

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/vinayak20130/ledgervault/internal/adapters/http/common"
)

// ============================================
// Custom Validator Setup
// ============================================

var (
	setupOnce sync.Once
)

// SetupValidator registers the custom Gin validators.
func SetupValidator() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			// Use the json tag for field names in error messages.
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})

			_ = v.RegisterValidation("asset_type_code", validateAssetTypeCode)
			_ = v.RegisterValidation("money_amount", validateMoneyAmount)
		}
	})
}

// ============================================
// Custom Validators
// ============================================

// validateAssetTypeCode checks an asset type code: uppercase letters,
// digits, and underscores (e.g. "USD", "GOLD_COINS").
var assetTypeCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,31}$`)

func validateAssetTypeCode(fl validator.FieldLevel) bool {
	return assetTypeCodePattern.MatchString(fl.Field().String())
}

// validateMoneyAmount checks a decimal amount string.
var moneyPattern = regexp.MustCompile(`^\d+(\.\d{1,8})?$`)

func validateMoneyAmount(fl validator.FieldLevel) bool {
	amount := fl.Field().String()
	return moneyPattern.MatchString(amount)
}

// ============================================
// Validation Error Handling
// ============================================

// HandleValidationErrors translates validation errors into an HTTP response.
func HandleValidationErrors(c *gin.Context, err error) {
	var fieldErrors []common.FieldError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrors {
			fieldErrors = append(fieldErrors, common.FieldError{
				Field:   fieldErr.Field(),
				Message: getValidationMessage(fieldErr),
				Code:    fieldErr.Tag(),
			})
		}
	}

	if len(fieldErrors) == 0 {
		common.BadRequestResponse(c, "Invalid request body: "+err.Error())
		return
	}

	common.ValidationErrorResponse(c, fieldErrors)
}

// getValidationMessage returns a human-readable message for a validation tag.
func getValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid":
		return "Invalid UUID format"
	case "min":
		return "Value is too short (minimum: " + fe.Param() + ")"
	case "max":
		return "Value is too long (maximum: " + fe.Param() + ")"
	case "len":
		return "Value must be exactly " + fe.Param() + " characters"
	case "oneof":
		return "Value must be one of: " + fe.Param()
	case "asset_type_code":
		return "Invalid asset type code (uppercase letters, digits, underscores)"
	case "money_amount":
		return "Invalid amount format (use decimal like '100.50')"
	default:
		return "Invalid value"
	}
}

// ============================================
// Request Parsing Helpers
// ============================================

// BindJSON binds the JSON request body, writing a validation error response
// and returning false if binding fails.
func BindJSON[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// BindQuery binds query string parameters.
func BindQuery[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// BindURI binds URI path parameters.
func BindURI[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindUri(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// ============================================
// Pagination Helper
// ============================================

// PaginationParams holds pagination parameters parsed from the query string.
type PaginationParams struct {
	Page    int `form:"page" binding:"min=1"`
	PerPage int `form:"per_page" binding:"min=1,max=100"`
}

// DefaultPaginationParams returns the default pagination parameters.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:    1,
		PerPage: 20,
	}
}

// Offset computes the SQL offset for the current page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParsePagination parses pagination parameters from the request.
func ParsePagination(c *gin.Context) PaginationParams {
	params := DefaultPaginationParams()

	if page := c.Query("page"); page != "" {
		if p := parseInt(page); p > 0 {
			params.Page = p
		}
	}

	if perPage := c.Query("per_page"); perPage != "" {
		if pp := parseInt(perPage); pp > 0 && pp <= 100 {
			params.PerPage = pp
		}
	}

	return params
}

// parseInt parses a digit string into an int, returning 0 on any non-digit.
func parseInt(s string) int {
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// BuildMeta builds the pagination metadata for a paginated response.
func BuildMeta(params PaginationParams, total int) *common.APIMeta {
	totalPages := total / params.PerPage
	if total%params.PerPage > 0 {
		totalPages++
	}

	return &common.APIMeta{
		Page:       params.Page,
		PerPage:    params.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
