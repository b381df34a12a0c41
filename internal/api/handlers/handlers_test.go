package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/pkg/errors"
	"github.com/wms-platform/pallet-service/pkg/logging"
	"github.com/wms-platform/pallet-service/pkg/metrics"
	"github.com/wms-platform/pallet-service/pkg/middleware"
)

type mockPalletService struct {
	PalletService

	addItemFn          func(ctx context.Context, cmd application.AddItemCommand) (*application.ItemDTO, error)
	getItemFn          func(ctx context.Context, query application.GetItemQuery) (*application.ItemDTO, error)
	listItemsFn        func(ctx context.Context, query application.ListItemsQuery) ([]application.ItemDTO, error)
	updateItemStatusFn func(ctx context.Context, cmd application.UpdateItemStatusCommand) (*application.ItemDTO, error)
	deletePalletFn     func(ctx context.Context, cmd application.DeletePalletCommand) error
	manifestFn         func(ctx context.Context, view application.View) (*application.ManifestDTO, error)
}

func (m *mockPalletService) AddItem(ctx context.Context, cmd application.AddItemCommand) (*application.ItemDTO, error) {
	if m.addItemFn == nil {
		panic("AddItem not implemented")
	}
	return m.addItemFn(ctx, cmd)
}

func (m *mockPalletService) GetItem(ctx context.Context, query application.GetItemQuery) (*application.ItemDTO, error) {
	if m.getItemFn == nil {
		panic("GetItem not implemented")
	}
	return m.getItemFn(ctx, query)
}

func (m *mockPalletService) ListItems(ctx context.Context, query application.ListItemsQuery) ([]application.ItemDTO, error) {
	if m.listItemsFn == nil {
		panic("ListItems not implemented")
	}
	return m.listItemsFn(ctx, query)
}

func (m *mockPalletService) UpdateItemStatus(ctx context.Context, cmd application.UpdateItemStatusCommand) (*application.ItemDTO, error) {
	if m.updateItemStatusFn == nil {
		panic("UpdateItemStatus not implemented")
	}
	return m.updateItemStatusFn(ctx, cmd)
}

func (m *mockPalletService) DeletePallet(ctx context.Context, cmd application.DeletePalletCommand) error {
	if m.deletePalletFn == nil {
		panic("DeletePallet not implemented")
	}
	return m.deletePalletFn(ctx, cmd)
}

func (m *mockPalletService) Manifest(ctx context.Context, view application.View) (*application.ManifestDTO, error) {
	if m.manifestFn == nil {
		panic("Manifest not implemented")
	}
	return m.manifestFn(ctx, view)
}

type stubStarter struct {
	got application.StartAllocationWorkflowCommand
}

func (s *stubStarter) StartAllocationWorkflow(ctx context.Context, cmd application.StartAllocationWorkflowCommand) (*application.WorkflowExecutionDTO, error) {
	s.got = cmd
	return &application.WorkflowExecutionDTO{WorkflowID: "pallet-allocation-1", RunID: "run-1"}, nil
}

func newTestRouter(service PalletService, starter WorkflowStarter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()

	router := gin.New()
	h := NewHandlers(service, starter, logging.NewNop())
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func performRequest(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.APIErrorResponse {
	t.Helper()
	var resp middleware.APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		query      string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "created",
			body:       `{"name":"widget","sku":"W-1","category":"tools","quantity":50,"unitWeight":2.5,"dimensions":{"length":4,"width":4,"height":2}}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       `{"sku":"W-1","category":"tools","quantity":1}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.CodeValidationError,
		},
		{
			name:       "unknown unit",
			body:       `{"name":"w","sku":"W-1","category":"tools","quantity":1,"units":{"weight":"stone"}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.CodeValidationError,
		},
		{
			name:       "bad view unit",
			body:       `{"name":"w","sku":"W-1","category":"tools","quantity":1}`,
			query:      "?lengthUnit=furlong",
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.CodeValidationError,
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.CodeBadRequest,
		},
		{
			name:       "service validation",
			body:       `{"name":"w","sku":"W-1","category":"tools","quantity":1,"priority":"high"}`,
			serviceErr: errors.ErrValidationWithFields("invalid", map[string]string{"dimensions": "must be non-negative numbers"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.CodeValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPalletService{
				addItemFn: func(ctx context.Context, cmd application.AddItemCommand) (*application.ItemDTO, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &application.ItemDTO{ItemID: "ITM-1", Name: cmd.Name, Status: "pending"}, nil
				},
			}
			w := performRequest(newTestRouter(svc, nil), http.MethodPost, "/api/v1/items"+tt.query, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
			}
		})
	}
}

func TestListItems_Paginates(t *testing.T) {
	var got application.ListItemsQuery
	svc := &mockPalletService{
		listItemsFn: func(ctx context.Context, query application.ListItemsQuery) ([]application.ItemDTO, error) {
			got = query
			items := make([]application.ItemDTO, 5)
			for i := range items {
				items[i] = application.ItemDTO{ItemID: string(rune('a' + i))}
			}
			return items, nil
		},
	}

	w := performRequest(newTestRouter(svc, nil), http.MethodGet, "/api/v1/items?status=pending&search=wid&page=2&pageSize=2&weightUnit=kg", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "wid", got.Search)
	assert.Equal(t, "kg", got.View.WeightUnit)

	var page struct {
		Data       []application.ItemDTO `json:"data"`
		Page       int64                 `json:"page"`
		TotalItems int64                 `json:"totalItems"`
		TotalPages int64                 `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Page)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, int64(3), page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "c", page.Data[0].ItemID)
}

func TestListItems_InvalidStatus(t *testing.T) {
	w := performRequest(newTestRouter(&mockPalletService{}, nil), http.MethodGet, "/api/v1/items?status=lost", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeValidationError, decodeError(t, w).Code)
}

func TestGetItem_NotFound(t *testing.T) {
	svc := &mockPalletService{
		getItemFn: func(ctx context.Context, query application.GetItemQuery) (*application.ItemDTO, error) {
			return nil, errors.ErrNotFound("packing item").WithDetail("id", query.ItemID)
		},
	}

	w := performRequest(newTestRouter(svc, nil), http.MethodGet, "/api/v1/items/ITM-404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, errors.CodeNotFound, resp.Code)
	assert.Equal(t, "ITM-404", resp.Details["id"])
	assert.Equal(t, "/api/v1/items/ITM-404", resp.Path)
}

func TestUpdateItemStatus_IllegalTransition(t *testing.T) {
	var got application.UpdateItemStatusCommand
	svc := &mockPalletService{
		updateItemStatusFn: func(ctx context.Context, cmd application.UpdateItemStatusCommand) (*application.ItemDTO, error) {
			got = cmd
			return nil, errors.ErrIllegalTransition("cannot move pending to shipped").
				WithDetail("from", "pending").WithDetail("to", "shipped")
		},
	}

	w := performRequest(newTestRouter(svc, nil), http.MethodPut, "/api/v1/items/ITM-1/status", `{"status":"shipped"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, errors.CodeIllegalTransition, decodeError(t, w).Code)
	assert.Equal(t, "ITM-1", got.ItemID)
	assert.Equal(t, "shipped", got.Status)

	w = performRequest(newTestRouter(svc, nil), http.MethodPut, "/api/v1/items/ITM-1/status", `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeletePallet(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"not empty", errors.ErrConflict("pallet still holds items"), http.StatusConflict},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPalletService{
				deletePalletFn: func(ctx context.Context, cmd application.DeletePalletCommand) error {
					assert.Equal(t, "PLT-1", cmd.PalletID)
					return tt.err
				},
			}
			w := performRequest(newTestRouter(svc, nil), http.MethodDelete, "/api/v1/pallets/PLT-1", "")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetManifest_Formats(t *testing.T) {
	svc := &mockPalletService{
		manifestFn: func(ctx context.Context, view application.View) (*application.ManifestDTO, error) {
			return &application.ManifestDTO{TotalItems: 3, Pallets: []application.ManifestPalletDTO{}, Unallocated: []application.ItemDTO{}}, nil
		},
	}
	router := newTestRouter(svc, nil)

	w := performRequest(router, http.MethodGet, "/api/v1/manifest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), `"totalItems": 3`)

	w = performRequest(router, http.MethodGet, "/api/v1/manifest?format=yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/yaml")
	assert.Contains(t, w.Body.String(), "totalItems: 3")

	w = performRequest(router, http.MethodGet, "/api/v1/manifest?format=csv", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartAllocationWorkflow(t *testing.T) {
	w := performRequest(newTestRouter(&mockPalletService{}, nil), http.MethodPost, "/api/v1/allocations/workflows", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	starter := &stubStarter{}
	w = performRequest(newTestRouter(&mockPalletService{}, starter), http.MethodPost, "/api/v1/allocations/workflows",
		`{"maxRounds":3,"retryIntervalSeconds":10,"shipFullPallets":true}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 3, starter.got.MaxRounds)
	assert.True(t, starter.got.ShipFullPallets)

	var execution application.WorkflowExecutionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &execution))
	assert.Equal(t, "pallet-allocation-1", execution.WorkflowID)

	w = performRequest(newTestRouter(&mockPalletService{}, starter), http.MethodPost, "/api/v1/allocations/workflows", `{"maxRounds":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestEndToEnd drives the real application service through the HTTP surface
func TestEndToEnd(t *testing.T) {
	m := metrics.New(metrics.DefaultConfig("handlers-test"))
	svc := application.NewPalletApplicationService(application.DefaultConfig(), nil, nil, m, logging.NewNop())
	router := newTestRouter(svc, nil)

	w := performRequest(router, http.MethodPost, "/api/v1/pallets", `{"name":"P1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var pallet application.PalletDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pallet))

	w = performRequest(router, http.MethodPost, "/api/v1/items",
		`{"name":"widget","sku":"W-1","category":"tools","quantity":50,"unitWeight":2.5,"dimensions":{"length":4,"width":4,"height":2}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var item application.ItemDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	w = performRequest(router, http.MethodPut, "/api/v1/items/"+item.ItemID+"/status", `{"status":"shipped"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(router, http.MethodPost, "/api/v1/allocations", "")
	require.Equal(t, http.StatusOK, w.Code)
	var result application.AllocationResultDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.PackedCount)

	w = performRequest(router, http.MethodGet, "/api/v1/pallets/"+pallet.PalletID+"/capacity?weightUnit=kg&lengthUnit=cm", "")
	require.Equal(t, http.StatusOK, w.Code)
	var capacity application.CapacityDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &capacity))
	assert.InDelta(t, 875*0.453592, capacity.RemainingWeight, 1e-9)
	assert.InDelta(t, 46*2.54, capacity.RemainingHeight, 1e-9)

	w = performRequest(router, http.MethodDelete, "/api/v1/pallets/"+pallet.PalletID, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(router, http.MethodPut, "/api/v1/settings", `{"units":{"length":"cm","weight":"kg"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, "/api/v1/items/"+item.ItemID, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "packed", item.Status)
	assert.Equal(t, "kg", item.Units.Weight)
	assert.InDelta(t, 125*0.453592, item.TotalWeight, 1e-9)

	w = performRequest(router, http.MethodGet, "/api/v1/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"packed":1`))
}
