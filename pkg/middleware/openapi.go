package middleware

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"github.com/wms-platform/pallet-service/pkg/contracts/openapi"
	"github.com/wms-platform/pallet-service/pkg/errors"
)

// OpenAPIValidation rejects requests that do not conform to the OpenAPI
// document with 400. Requests the document does not describe pass through.
func OpenAPIValidation(v *openapi.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := v.ValidateRequest(c.Request)
		if err == nil || stderrors.Is(err, openapi.ErrRouteNotFound) {
			c.Next()
			return
		}

		AbortWithAppError(c, errors.ErrValidation("request does not match the API contract").
			WithDetail("contract", err.Error()))
	}
}
