package api

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/pallet-service/pkg/contracts/asyncapi"
	"github.com/wms-platform/pallet-service/pkg/contracts/openapi"
)

func TestOpenAPISpec_Loads(t *testing.T) {
	v, err := openapi.NewValidatorFromBytes(OpenAPISpec)
	require.NoError(t, err)
	assert.Contains(t, v.Paths(), "/api/v1/items")
	assert.Contains(t, v.Paths(), "/api/v1/allocations")
}

func TestOpenAPISpec_ValidatesRequests(t *testing.T) {
	v, err := openapi.NewValidatorFromBytes(OpenAPISpec)
	require.NoError(t, err)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		wantErr bool
	}{
		{"valid item", "POST", "/api/v1/items", `{"name":"w","sku":"S","category":"c","quantity":1,"unitWeight":2.5}`, false},
		{"missing sku", "POST", "/api/v1/items", `{"name":"w","category":"c","quantity":1}`, true},
		{"zero quantity", "POST", "/api/v1/items", `{"name":"w","sku":"S","category":"c","quantity":0}`, true},
		{"bad status filter", "GET", "/api/v1/items?status=lost", "", true},
		{"valid pallet", "POST", "/api/v1/pallets", `{"name":"P1","maxWeight":500}`, false},
		{"ship", "POST", "/api/v1/pallets/PLT-1/ship", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			err := v.ValidateRequest(req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err = v.OperationID(httptest.NewRequest("GET", "/api/v1/unknown", nil))
	assert.ErrorIs(t, err, openapi.ErrRouteNotFound)
}

func TestAsyncAPISpec_ItemRequested(t *testing.T) {
	v, err := asyncapi.NewEventValidatorFromBytes(AsyncAPISpec)
	require.NoError(t, err)
	assert.True(t, v.HasSchema("wms.pallet.item-requested"))

	valid := map[string]interface{}{
		"name": "widget", "sku": "W-1", "category": "tools", "quantity": 2, "unitWeight": 1.5,
	}
	assert.NoError(t, v.ValidateData("wms.pallet.item-requested", valid))

	invalid := map[string]interface{}{
		"name": "widget", "sku": "W-1", "category": "tools", "quantity": 0, "unitWeight": 1.5,
	}
	assert.Error(t, v.ValidateData("wms.pallet.item-requested", invalid))
}
