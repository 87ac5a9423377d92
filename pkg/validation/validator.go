package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/abhishekverma0700/eduavaa/internal/domain/entity"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the asset path check and aliases used by request DTOs.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs tag names, custom validations and aliases on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("assetpath", validAssetPath)
	_ = v.RegisterValidation("opaqueid", validOpaqueID)
	v.RegisterAlias("amount", "gt=0")
}

// validAssetPath accepts relative bucket keys without traversal, control
// characters or surrounding whitespace.
func validAssetPath(fl validator.FieldLevel) bool {
	return entity.ValidAssetID(fl.Field().String())
}

// validOpaqueID accepts identity-provider user ids.
func validOpaqueID(fl validator.FieldLevel) bool {
	return entity.ValidUserID(fl.Field().String())
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldPath(fe)] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// fieldPath drops the root struct name: "VerifyRequest.items[0].asset_id" -> "items[0].asset_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + param + " is not present"
	case "email":
		return "must be a valid email"
	case "assetpath":
		return "must be a relative asset path"
	case "opaqueid":
		return "must be a non-empty identifier without spaces (max 128 bytes)"
	case "gt", "amount":
		return "must be greater than " + defaultParam(param, "0")
	case "gte":
		return "must be at least " + param
	case "lte":
		return "must be at most " + param
	case "min":
		if isCollection(fe.Kind()) {
			return "must contain at least " + param + " items"
		}
		return "must be at least " + param + " characters"
	case "max":
		if isCollection(fe.Kind()) {
			return "must contain at most " + param + " items"
		}
		return "must be at most " + param + " characters"
	case "dive":
		return "contains an invalid item"
	case "oneof":
		return "must be one of: " + param
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func defaultParam(p, def string) string {
	if p == "" {
		return def
	}
	return p
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}
