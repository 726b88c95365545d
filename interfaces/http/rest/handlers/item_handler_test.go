package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/application/services"
	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
)

// mockCatalogService is a mock implementation of CatalogService
type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) CreateItem(ctx context.Context, input services.CreateItemInput) (*catalog.Item, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *mockCatalogService) GetItem(ctx context.Context, id string) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *mockCatalogService) ListItems(ctx context.Context, filter ports.ListFilter) (*ports.ItemPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ItemPage), args.Error(1)
}

func (m *mockCatalogService) UpdateItem(ctx context.Context, id string, fields map[string]interface{}) (*catalog.Item, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

// mockDeleteService is a mock implementation of DeleteService
type mockDeleteService struct {
	mock.Mock
}

func (m *mockDeleteService) DeleteItem(ctx context.Context, itemID string) (*services.DeleteConflict, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DeleteConflict), args.Error(1)
}

// mockImageService is a mock implementation of ImageService
type mockImageService struct {
	mock.Mock
}

func (m *mockImageService) AttachImage(ctx context.Context, itemID, name, encoded string) (*catalog.Item, error) {
	args := m.Called(ctx, itemID, name, encoded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func newHandlerFixture() (*chi.Mux, *mockCatalogService, *mockDeleteService, *mockImageService) {
	catalogSvc := new(mockCatalogService)
	deleter := new(mockDeleteService)
	images := new(mockImageService)
	h := NewItemHandler(catalogSvc, deleter, images, zap.NewNop())

	r := chi.NewRouter()
	r.Route("/items", func(ir chi.Router) {
		ir.Get("/", h.ListItems)
		ir.Post("/", h.CreateItem)
		ir.Get("/{itemID}", h.GetItem)
		ir.Put("/{itemID}", h.UpdateItem)
		ir.Patch("/{itemID}", h.UpdateItem)
		ir.Delete("/{itemID}", h.DeleteItem)
		ir.Post("/{itemID}/image", h.AttachImage)
	})
	return r, catalogSvc, deleter, images
}

func sampleItem() *catalog.Item {
	item, _ := catalog.NewItem("item-1", "Space Raiders", 1999, "system-1")
	return item
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestItemHandler_CreateItem_Created(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	catalogSvc.On("CreateItem", mock.Anything, mock.MatchedBy(func(in services.CreateItemInput) bool {
		return in.Name == "Space Raiders" && in.Price == 1999 && in.GamingSystemID == "system-1"
	})).Return(sampleItem(), nil)

	payload := `{"name":"Space Raiders","price":1999,"gamingSystemId":"system-1"}`
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	catalogSvc.AssertExpectations(t)
}

func TestItemHandler_CreateItem_ZeroPriceAllowed(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	catalogSvc.On("CreateItem", mock.Anything, mock.MatchedBy(func(in services.CreateItemInput) bool {
		return in.Price == 0 && in.FreeGrant
	})).Return(sampleItem(), nil)

	payload := `{"name":"Starter Pack","price":0,"gamingSystemId":"system-1","freeGrant":true}`
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code)
	catalogSvc.AssertExpectations(t)
}

func TestItemHandler_CreateItem_MissingFields(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(`{"name":"No Price"}`))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	catalogSvc.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
}

func TestItemHandler_CreateItem_InvalidJSON(t *testing.T) {
	// Arrange
	r, _, _, _ := newHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(`{not json`))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemHandler_CreateItem_DuplicateConflict(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	catalogSvc.On("CreateItem", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConflictError("item already exists"))

	payload := `{"id":"dup","name":"Space Raiders","price":1999,"gamingSystemId":"system-1"}`
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestItemHandler_GetItem_OK(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	catalogSvc.On("GetItem", mock.Anything, "item-1").Return(sampleItem(), nil)

	req := httptest.NewRequest(http.MethodGet, "/items/item-1", nil)
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "item-1", data["id"])
}

func TestItemHandler_GetItem_NotFound(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	catalogSvc.On("GetItem", mock.Anything, "ghost").
		Return(nil, apperrors.NewNotFoundError("item"))

	req := httptest.NewRequest(http.MethodGet, "/items/ghost", nil)
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemHandler_ListItems_ParsesQueryParams(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	catalogSvc.On("ListItems", mock.Anything, mock.MatchedBy(func(f ports.ListFilter) bool {
		return f.GamingSystemID == "system-1" &&
			f.Category == "game" &&
			f.Status == "active" &&
			f.Limit == 25 &&
			f.NextToken == "tok" &&
			f.MinPrice != nil && *f.MinPrice == 500 &&
			f.MaxPrice != nil && *f.MaxPrice == 5000 &&
			f.Featured != nil && *f.Featured &&
			f.IncludeArchived
	})).Return(&ports.ItemPage{Items: []*catalog.Item{sampleItem()}, NextToken: "next"}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/items?gamingSystemId=system-1&category=game&status=active&limit=25&lastKey=tok&minPrice=500&maxPrice=5000&featured=true&includeArchived=true", nil)
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "next", data["lastKey"])
	catalogSvc.AssertExpectations(t)
}

func TestItemHandler_ListItems_TypeAliasForCategory(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	catalogSvc.On("ListItems", mock.Anything, mock.MatchedBy(func(f ports.ListFilter) bool {
		return f.Category == "dlc"
	})).Return(&ports.ItemPage{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/items?type=dlc", nil)
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	catalogSvc.AssertExpectations(t)
}

func TestItemHandler_ListItems_BadLimit(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/items?limit=banana", nil)
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	catalogSvc.AssertNotCalled(t, "ListItems", mock.Anything, mock.Anything)
}

func TestItemHandler_UpdateItem_OK(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	updated := sampleItem()
	updated.Price = 2499
	catalogSvc.On("UpdateItem", mock.Anything, "item-1",
		map[string]interface{}{"price": float64(2499)}).Return(updated, nil)

	req := httptest.NewRequest(http.MethodPatch, "/items/item-1", bytes.NewBufferString(`{"price":2499}`))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	catalogSvc.AssertExpectations(t)
}

func TestItemHandler_UpdateItem_MalformedValue(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	catalogSvc.On("UpdateItem", mock.Anything, "item-1",
		map[string]interface{}{"name": float64(123)}).
		Return(nil, apperrors.NewValidationError("name must be a non-empty string of at most 200 characters"))

	req := httptest.NewRequest(http.MethodPatch, "/items/item-1", bytes.NewBufferString(`{"name":123}`))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	catalogSvc.AssertExpectations(t)
}

func TestItemHandler_UpdateItem_PutRouteSharesHandler(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	catalogSvc.On("UpdateItem", mock.Anything, "item-1", mock.Anything).Return(sampleItem(), nil)

	req := httptest.NewRequest(http.MethodPut, "/items/item-1", bytes.NewBufferString(`{"name":"Renamed"}`))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestItemHandler_UpdateItem_NotFound(t *testing.T) {
	// Arrange
	r, catalogSvc, _, _ := newHandlerFixture()
	catalogSvc.On("UpdateItem", mock.Anything, "ghost", mock.Anything).
		Return(nil, apperrors.NewNotFoundError("item"))

	req := httptest.NewRequest(http.MethodPatch, "/items/ghost", bytes.NewBufferString(`{"name":"x"}`))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemHandler_DeleteItem_OK(t *testing.T) {
	// Arrange
	r, _, deleter, _ := newHandlerFixture()
	deleter.On("DeleteItem", mock.Anything, "item-1").Return(nil, nil)

	req := httptest.NewRequest(http.MethodDelete, "/items/item-1", nil)
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	deleter.AssertExpectations(t)
}

func TestItemHandler_DeleteItem_ConflictCarriesBlockers(t *testing.T) {
	// Arrange
	r, _, deleter, _ := newHandlerFixture()
	conflict := &services.DeleteConflict{
		Message: `cannot delete item "Space Raiders": required by systems: RetroBox; 1 account(s) still hold access`,
		BlockingAccounts: []services.BlockedAccount{
			{AccountID: "acct-7", Contact: "holder@example.com"},
		},
		BlockingSystems: []services.BlockedSystem{
			{SystemID: "system-2", Name: "RetroBox"},
		},
	}
	deleter.On("DeleteItem", mock.Anything, "item-1").Return(conflict, nil)

	req := httptest.NewRequest(http.MethodDelete, "/items/item-1", nil)
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeEnvelope(t, rec)
	errInfo := body["error"].(map[string]interface{})
	assert.Contains(t, errInfo["message"], "RetroBox")

	details := errInfo["details"].(map[string]interface{})
	accounts := details["blockingAccounts"].([]interface{})
	require.Len(t, accounts, 1)
	assert.Equal(t, "acct-7", accounts[0].(map[string]interface{})["accountId"])
	systems := details["blockingSystems"].([]interface{})
	require.Len(t, systems, 1)
	assert.Equal(t, "system-2", systems[0].(map[string]interface{})["systemId"])
}

func TestItemHandler_DeleteItem_NotFound(t *testing.T) {
	// Arrange
	r, _, deleter, _ := newHandlerFixture()
	deleter.On("DeleteItem", mock.Anything, "ghost").
		Return(nil, apperrors.NewNotFoundError("item"))

	req := httptest.NewRequest(http.MethodDelete, "/items/ghost", nil)
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemHandler_AttachImage_OK(t *testing.T) {
	// Arrange
	r, _, _, images := newHandlerFixture()
	images.On("AttachImage", mock.Anything, "item-1", "boxart", "aW1hZ2U=").
		Return(sampleItem(), nil)

	payload := `{"image":"aW1hZ2U=","name":"boxart"}`
	req := httptest.NewRequest(http.MethodPost, "/items/item-1/image", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	images.AssertExpectations(t)
}

func TestItemHandler_AttachImage_MissingPayload(t *testing.T) {
	// Arrange
	r, _, _, images := newHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/items/item-1/image", bytes.NewBufferString(`{"name":"boxart"}`))
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	images.AssertNotCalled(t, "AttachImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
