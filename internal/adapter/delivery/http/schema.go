package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

const statusError = "error"

// createLinkRequest represents the structure for a request to shorten a URL.
type createLinkRequest struct {
	OriginalURL string `json:"original_url" validate:"required,http_url"`
	CustomAlias string `json:"custom_alias" validate:"omitempty,max=64"`
}

// linkResponse represents the structure for a response containing a shortened link.
type linkResponse struct {
	ID          string     `json:"id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	CustomAlias string     `json:"custom_alias,omitempty"`
	ClickCount  int64      `json:"click_count"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func toLinkResponse(link *entity.Link) linkResponse {
	resp := linkResponse{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
		CustomAlias: link.CustomAlias,
		ClickCount:  link.ClickCount,
	}
	if !link.CreatedAt.IsZero() {
		createdAt := link.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

func toLinkResponses(links []*entity.Link) []linkResponse {
	resp := make([]linkResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, toLinkResponse(link))
	}
	return resp
}

type clickResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
}

type dailyClicksResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// analyticsResponse represents the clicks of a link, newest first, and their daily totals.
type analyticsResponse struct {
	Link   linkResponse          `json:"link"`
	Clicks []clickResponse       `json:"clicks"`
	Daily  []dailyClicksResponse `json:"daily"`
}

func toAnalyticsResponse(a *entity.Analytics) analyticsResponse {
	resp := analyticsResponse{
		Link:   toLinkResponse(a.Link),
		Clicks: make([]clickResponse, 0, len(a.Clicks)),
		Daily:  make([]dailyClicksResponse, 0, len(a.Daily)),
	}
	for _, c := range a.Clicks {
		resp.Clicks = append(resp.Clicks, clickResponse{
			ID:        c.ID,
			Timestamp: c.Timestamp,
			Date:      c.Date,
		})
	}
	for _, d := range a.Daily {
		resp.Daily = append(resp.Daily, dailyClicksResponse{
			Date:  d.Date,
			Count: d.Count,
		})
	}
	return resp
}

// watchMessage is pushed to watch stream clients on every change of their links.
type watchMessage struct {
	Links []linkResponse `json:"links"`
	Error string         `json:"error,omitempty"`
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

func newErrorResponse(msg string) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: msg,
	}
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse   = newErrorResponse("empty request body")
	invalidRequestBodyResponse = newErrorResponse("invalid request body")
	unauthenticatedResponse    = newErrorResponse("authentication required")
	unauthorizedResponse       = newErrorResponse("link belongs to another owner")
	linkNotFoundResponse       = newErrorResponse("link not found")
	invalidAliasResponse       = newErrorResponse("invalid custom alias")
	aliasTakenResponse         = newErrorResponse("custom alias is already taken")
	shortCodeConflictResponse  = newErrorResponse("short code is already in use")
	unavailableResponse        = newErrorResponse("service temporarily unavailable")
	serverErrorResponse        = newErrorResponse("server error occurred")
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url", "http_url":
		return "invalid url"
	case "max":
		return "value is too long"
	default:
		return "invalid value"
	}
}

// getValidationErrors processes validation errors and returns a list of validationError.
func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

// validationErrorResponse constructs an errorResponse for validation errors.
func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}
