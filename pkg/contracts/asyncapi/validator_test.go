package asyncapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpec = `
asyncapi: 3.0.0
info:
  title: Test
  version: 1.0.0
channels:
  requests:
    address: test.requests
    messages:
      thingRequested:
        $ref: '#/components/messages/ThingRequested'
components:
  messages:
    ThingRequested:
      name: wms.test.thing-requested
      payload:
        $ref: '#/components/schemas/ThingRequestedData'
  schemas:
    ThingRequestedData:
      type: object
      required: [name, quantity]
      properties:
        name:
          type: string
          minLength: 1
        quantity:
          type: integer
          minimum: 1
`

func TestEventValidator_ValidateData(t *testing.T) {
	v, err := NewEventValidatorFromBytes([]byte(testSpec))
	require.NoError(t, err)
	assert.Equal(t, []string{"wms.test.thing-requested"}, v.GetSupportedEventTypes())

	tests := []struct {
		name    string
		data    interface{}
		wantErr bool
	}{
		{"valid map", map[string]interface{}{"name": "crate", "quantity": 2}, false},
		{"valid struct", struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
		}{"crate", 1}, false},
		{"missing quantity", map[string]interface{}{"name": "crate"}, true},
		{"zero quantity", map[string]interface{}{"name": "crate", "quantity": 0}, true},
		{"empty name", map[string]interface{}{"name": "", "quantity": 1}, true},
		{"nil data", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateData("wms.test.thing-requested", tt.data)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEventValidator_UnknownType(t *testing.T) {
	v, err := NewEventValidatorFromBytes([]byte(testSpec))
	require.NoError(t, err)

	err = v.ValidateData("wms.test.unknown", map[string]interface{}{})
	assert.ErrorIs(t, err, ErrNoSchema)
	assert.False(t, v.HasSchema("wms.test.unknown"))
}

func TestNewEventValidatorFromBytes_DanglingRef(t *testing.T) {
	spec := `
asyncapi: 3.0.0
components:
  messages:
    Broken:
      name: wms.test.broken
      payload:
        $ref: '#/components/schemas/Missing'
`
	_, err := NewEventValidatorFromBytes([]byte(spec))
	assert.Error(t, err)
}
