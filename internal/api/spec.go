// Package api holds the HTTP and event contracts of the pallet service.
package api

import _ "embed"

// OpenAPISpec is the HTTP contract served under /api/v1
//
//go:embed openapi.yaml
var OpenAPISpec []byte

// AsyncAPISpec describes the item feed and the published pallet events
//
//go:embed asyncapi.yaml
var AsyncAPISpec []byte
