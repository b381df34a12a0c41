package cloudevents

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types published and consumed by the pallet service
const (
	PalletItemAdded           = "wms.pallet.item-added"
	PalletItemPacked          = "wms.pallet.item-packed"
	PalletItemShipped         = "wms.pallet.item-shipped"
	PalletItemDeleted         = "wms.pallet.item-deleted"
	PalletRegistered          = "wms.pallet.pallet-registered"
	PalletShipped             = "wms.pallet.pallet-shipped"
	PalletDeleted             = "wms.pallet.pallet-deleted"
	PalletAllocationCompleted = "wms.pallet.allocation-completed"

	// PalletItemRequested is consumed: an upstream system asks for an item to be packed
	PalletItemRequested = "wms.pallet.item-requested"
)

// SourcePallet is the CloudEvents source of the pallet service
const SourcePallet = "/wms/pallet-service"

// Extension attribute names, also used as Kafka header suffixes
const (
	ExtCorrelationID = "wmscorrelationid"
	ExtWorkflowID    = "wmsworkflowid"
	ExtTraceParent   = "traceparent"
	ExtTraceState    = "tracestate"
)

// WMSCloudEvent is a CloudEvents v1.0 envelope with the WMS extensions
type WMSCloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	CorrelationID string `json:"wmscorrelationid,omitempty"`
	WorkflowID    string `json:"wmsworkflowid,omitempty"`

	// W3C trace context
	TraceParent string `json:"traceparent,omitempty"`
	TraceState  string `json:"tracestate,omitempty"`
}

// DecodeData unmarshals the event data into target. Events read off the wire
// carry generic JSON in Data, so it is re-encoded first.
func (e *WMSCloudEvent) DecodeData(target interface{}) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", e.Type, err)
	}
	return nil
}

// ItemRequestedData is the payload of PalletItemRequested
type ItemRequestedData struct {
	RequestID  string  `json:"requestId,omitempty"`
	Name       string  `json:"name"`
	SKU        string  `json:"sku"`
	Category   string  `json:"category"`
	Quantity   int     `json:"quantity"`
	UnitWeight float64 `json:"unitWeight"`
	Length     float64 `json:"length"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Priority   string  `json:"priority,omitempty"`
	LengthUnit string  `json:"lengthUnit,omitempty"`
	WeightUnit string  `json:"weightUnit,omitempty"`
}
