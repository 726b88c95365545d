package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/application/services"
	"catalog-backend/domain/catalog"
	"catalog-backend/pkg/common"
	apperrors "catalog-backend/pkg/errors"
	"catalog-backend/pkg/utils"
)

// CatalogService is the CRUD surface the handler dispatches to
type CatalogService interface {
	CreateItem(ctx context.Context, input services.CreateItemInput) (*catalog.Item, error)
	GetItem(ctx context.Context, id string) (*catalog.Item, error)
	ListItems(ctx context.Context, filter ports.ListFilter) (*ports.ItemPage, error)
	UpdateItem(ctx context.Context, id string, fields map[string]interface{}) (*catalog.Item, error)
}

// DeleteService guards and performs item removal
type DeleteService interface {
	DeleteItem(ctx context.Context, itemID string) (*services.DeleteConflict, error)
}

// ImageService attaches uploaded images to items
type ImageService interface {
	AttachImage(ctx context.Context, itemID, name, encoded string) (*catalog.Item, error)
}

// ItemHandler handles catalog item HTTP requests
type ItemHandler struct {
	catalog CatalogService
	deleter DeleteService
	images  ImageService
	logger  *zap.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(catalogSvc CatalogService, deleter DeleteService, images ImageService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		catalog: catalogSvc,
		deleter: deleter,
		images:  images,
		logger:  logger,
	}
}

// CreateItemRequest is the request body for creating an item
type CreateItemRequest struct {
	ID             string                 `json:"id,omitempty"`
	Name           string                 `json:"name" validate:"required,min=1,max=200"`
	Price          *int64                 `json:"price" validate:"required,gte=0"`
	GamingSystemID string                 `json:"gamingSystemId" validate:"required"`
	Category       string                 `json:"category,omitempty" validate:"omitempty,max=100"`
	Status         string                 `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Featured       bool                   `json:"featured,omitempty"`
	FreeGrant      bool                   `json:"freeGrant,omitempty"`
	Attributes     map[string]interface{} `json:"attributes,omitempty"`
}

// AttachImageRequest is the request body for attaching an image
type AttachImageRequest struct {
	Image string `json:"image" validate:"required"`
	Name  string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// CreateItem handles POST /items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), err.Error())
		return
	}

	item, err := h.catalog.CreateItem(r.Context(), services.CreateItemInput{
		ID:             req.ID,
		Name:           req.Name,
		Price:          *req.Price,
		GamingSystemID: req.GamingSystemID,
		Category:       req.Category,
		Status:         req.Status,
		Featured:       req.Featured,
		FreeGrant:      req.FreeGrant,
		Attributes:     req.Attributes,
	})
	if err != nil {
		h.logger.Error("Failed to create item", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, item)
}

// GetItem handles GET /items/{itemID}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "Item ID is required")
		return
	}

	item, err := h.catalog.GetItem(r.Context(), itemID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			h.logger.Error("Failed to get item", zap.String("itemID", itemID), zap.Error(err))
		}
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, item)
}

// ListItemsResponse is one page of a catalog listing
type ListItemsResponse struct {
	Items   []*catalog.Item `json:"items"`
	LastKey string          `json:"lastKey,omitempty"`
}

// ListItems handles GET /items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	page, err := h.catalog.ListItems(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list items", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, ListItemsResponse{
		Items:   page.Items,
		LastKey: page.NextToken,
	})
}

// UpdateItem handles PUT and PATCH /items/{itemID}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "Item ID is required")
		return
	}

	var fields map[string]interface{}
	if err := common.ParseJSONBody(r, &fields, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "Invalid request body: "+err.Error())
		return
	}

	item, err := h.catalog.UpdateItem(r.Context(), itemID, fields)
	if err != nil {
		if !apperrors.IsNotFound(err) && !apperrors.IsValidation(err) {
			h.logger.Error("Failed to update item", zap.String("itemID", itemID), zap.Error(err))
		}
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /items/{itemID}. A blocked delete returns 409
// with the complete blocker lists.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "Item ID is required")
		return
	}

	conflict, err := h.deleter.DeleteItem(r.Context(), itemID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			h.logger.Error("Failed to delete item", zap.String("itemID", itemID), zap.Error(err))
		}
		common.RespondAppError(w, err)
		return
	}

	if conflict != nil {
		common.RespondAppError(w, apperrors.NewConflictError(conflict.Message).WithDetails(conflict.Details()))
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Item deleted",
		"id":      itemID,
	})
}

// AttachImage handles POST /items/{itemID}/image
func (h *ItemHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "Item ID is required")
		return
	}

	var req AttachImageRequest
	if err := common.ParseJSONBody(r, &req, 10<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(apperrors.ErrorTypeValidation), err.Error())
		return
	}

	item, err := h.images.AttachImage(r.Context(), itemID, req.Name, req.Image)
	if err != nil {
		if !apperrors.IsNotFound(err) && !apperrors.IsValidation(err) {
			h.logger.Error("Failed to attach image", zap.String("itemID", itemID), zap.Error(err))
		}
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, item)
}

// parseListFilter extracts listing parameters from the query string
func parseListFilter(r *http.Request) (ports.ListFilter, error) {
	q := r.URL.Query()

	filter := ports.ListFilter{
		GamingSystemID: q.Get("gamingSystemId"),
		Category:       q.Get("category"),
		Status:         q.Get("status"),
		NextToken:      q.Get("lastKey"),
	}
	if filter.Category == "" {
		filter.Category = q.Get("type")
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 32)
		if err != nil || limit <= 0 {
			return filter, apperrors.NewValidationError("limit must be a positive integer")
		}
		filter.Limit = int32(limit)
	}
	if v := q.Get("minPrice"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.NewValidationError("minPrice must be an integer")
		}
		filter.MinPrice = &price
	}
	if v := q.Get("maxPrice"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.NewValidationError("maxPrice must be an integer")
		}
		filter.MaxPrice = &price
	}
	if v := q.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return filter, apperrors.NewValidationError("featured must be a boolean")
		}
		filter.Featured = &featured
	}
	if v := q.Get("includeArchived"); v != "" {
		includeArchived, err := strconv.ParseBool(v)
		if err != nil {
			return filter, apperrors.NewValidationError("includeArchived must be a boolean")
		}
		filter.IncludeArchived = includeArchived
	}

	return filter, nil
}
