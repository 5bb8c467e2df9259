package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// requestRules turns a failed bind into the message a client sees. Fields
// are keyed by their wire name, then by the validator tag that failed.
type requestRules struct {
	invalid string
	fields  map[string]map[string]string
}

func (r requestRules) explain(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if msg, ok := r.fields[verr.Field()][verr.Tag()]; ok {
				return msg
			}
		}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s must be a %s", typeErr.Field, wireType(typeErr.Type.Kind().String()))
	}
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	if r.invalid != "" {
		return r.invalid
	}
	return "invalid request"
}

// wireType names a Go kind the way a JSON client thinks of it.
func wireType(kind string) string {
	switch kind {
	case "int", "int8", "int16", "int32", "int64":
		return "whole number that fits in 64 bits"
	case "string":
		return "string"
	default:
		return kind
	}
}

func bindJSON(c *gin.Context, req any, rules requestRules) bool {
	return bindWith(c, c.ShouldBindJSON, req, rules)
}

func bindQuery(c *gin.Context, req any, rules requestRules) bool {
	return bindWith(c, c.ShouldBindQuery, req, rules)
}

func bindWith(c *gin.Context, bind func(any) error, req any, rules requestRules) bool {
	if err := bind(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": rules.explain(err)})
		return false
	}
	return true
}

// bindURI treats a malformed path as a missing resource.
func bindURI(c *gin.Context, req any) bool {
	if err := c.ShouldBindUri(req); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return false
	}
	return true
}
