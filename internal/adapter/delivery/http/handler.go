package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/usecase"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type linkUseCase interface {
	Create(ctx context.Context, originalURL, ownerID, customAlias string) (*entity.Link, error)
	GetByCode(ctx context.Context, shortCode string) (*entity.Link, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Link, error)
	Delete(ctx context.Context, linkID, requesterID string) error
	Watch(ctx context.Context, ownerID string, fn usecase.WatchFunc) (func(), error)
}

type clickUseCase interface {
	Record(ctx context.Context, linkID string) error
}

type analyticsUseCase interface {
	GetAnalytics(ctx context.Context, linkID string) (*entity.Analytics, error)
}

type linkHandler struct {
	links     linkUseCase
	clicks    clickUseCase
	analytics analyticsUseCase
	validate  *validator.Validate
	upgrader  websocket.Upgrader
}

func newLinkHandler(links linkUseCase, clicks clickUseCase, analytics analyticsUseCase) *linkHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &linkHandler{
		links:     links,
		clicks:    clicks,
		analytics: analytics,
		validate:  validate,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients authenticate with a bearer token, not cookies.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// renderError maps use case errors to a status code and response body.
// Unexpected errors are attached to the request log entry.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := http.StatusInternalServerError, serverErrorResponse

	switch {
	case errors.Is(err, entity.ErrInvalidAlias):
		status, resp = http.StatusBadRequest, invalidAliasResponse
	case errors.Is(err, entity.ErrUnauthorized):
		status, resp = http.StatusForbidden, unauthorizedResponse
	case errors.Is(err, entity.ErrLinkNotFound):
		status, resp = http.StatusNotFound, linkNotFoundResponse
	case errors.Is(err, entity.ErrAliasTaken):
		status, resp = http.StatusConflict, aliasTakenResponse
	case errors.Is(err, entity.ErrShortCodeExists):
		status, resp = http.StatusConflict, shortCodeConflictResponse
	case errors.Is(err, entity.ErrMaxAttemptsExceeded), errors.Is(err, entity.ErrStoreUnavailable):
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		status, resp = http.StatusServiceUnavailable, unavailableResponse
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

func (h *linkHandler) createLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	ownerID := ownerIDFromContext(r.Context())

	link, err := h.links.Create(r.Context(), req.OriginalURL, ownerID, req.CustomAlias)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toLinkResponse(link))
}

func (h *linkHandler) listLinks(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerIDFromContext(r.Context())

	links, err := h.links.ListByOwner(r.Context(), ownerID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkResponses(links))
}

func (h *linkHandler) getLinkByCode(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	link, err := h.links.GetByCode(r.Context(), shortCode)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if link == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, linkNotFoundResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkResponse(link))
}

func (h *linkHandler) deleteLink(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")
	ownerID := ownerIDFromContext(r.Context())

	if err := h.links.Delete(r.Context(), linkID, ownerID); err != nil {
		renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *linkHandler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")
	ownerID := ownerIDFromContext(r.Context())

	analytics, err := h.analytics.GetAnalytics(r.Context(), linkID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if analytics.Link.OwnerID != ownerID {
		renderError(w, r, entity.ErrUnauthorized)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toAnalyticsResponse(analytics))
}

// redirect sends the visitor to the original URL. A click that cannot be
// recorded is logged and does not block the redirect.
func (h *linkHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	link, err := h.links.GetByCode(r.Context(), shortCode)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if link == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, linkNotFoundResponse)
		return
	}

	if err := h.clicks.Record(r.Context(), link.ID); err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
	}

	http.Redirect(w, r, link.OriginalURL, http.StatusFound)
}
