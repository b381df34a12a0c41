package middleware

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/wms-platform/pallet-service/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var enumTags = map[string]map[string]bool{
	"lengthunit": setOf("in", "inch", "inches", "cm", "centimeter", "centimeters"),
	"weightunit": setOf("lb", "lbs", "pound", "pounds", "kg", "kgs", "kilogram", "kilograms"),
	"priority":   setOf("high", "medium", "low"),
	"itemstatus": setOf("pending", "packed", "shipped"),
}

var enumMessages = map[string]string{
	"lengthunit": "must be a length unit (inch, cm)",
	"weightunit": "must be a weight unit (lb, kg)",
	"priority":   "must be one of: high, medium, low",
	"itemstatus": "must be one of: pending, packed, shipped",
}

func setOf(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

func enumValidator(allowed map[string]bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return allowed[strings.ToLower(strings.TrimSpace(fl.Field().String()))]
	}
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func register(v *validator.Validate) {
	for tag, allowed := range enumTags {
		_ = v.RegisterValidation(tag, enumValidator(allowed))
	}
	v.RegisterTagNameFunc(jsonTagName)
}

// InitValidator registers the custom tags on both the standalone validator
// and gin's binding validator
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		register(validate)

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			register(v)
		}
	})
	return validate
}

// FormatValidationErrors turns validator errors into a field -> message map
func FormatValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fields[e.Field()] = formatFieldError(e)
		}
	}
	return fields
}

func formatFieldError(e validator.FieldError) string {
	if msg, ok := enumMessages[e.Tag()]; ok {
		return msg
	}
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// BindAndValidate binds the JSON body into obj and runs the binding tags
func BindAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrors validator.ValidationErrors
		if stderrors.As(err, &validationErrors) {
			return errors.ErrValidationWithFields("validation failed", FormatValidationErrors(validationErrors))
		}
		return errors.ErrBadRequest("invalid request body: " + err.Error())
	}
	return nil
}

// ContentType rejects non-JSON bodies on POST, PUT and PATCH
func ContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "POST", "PUT", "PATCH":
			contentType := c.GetHeader("Content-Type")
			if c.Request.ContentLength > 0 && !strings.HasPrefix(contentType, "application/json") {
				AbortWithAppError(c, errors.NewAppError("INVALID_CONTENT_TYPE", "Content-Type must be application/json", 415))
				return
			}
		}
		c.Next()
	}
}
