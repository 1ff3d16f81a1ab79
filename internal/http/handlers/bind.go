package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into out. On failure it writes a 400
// (or 413 for an oversized body) and returns false.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(ctx, http.StatusRequestEntityTooLarge, "Request body too large", nil, nil)
			return false
		}

		RespondBadRequest(ctx, "Invalid request body", parseBindError(err, out))

		return false
	}

	return true
}

func parseBindError(err error, out interface{}) map[string]string {
	rootType := baseStructType(out)

	if errors.Is(err, io.EOF) {
		return map[string]string{"body": "request body is required"}
	}

	// in the event of bad json

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) {
		return map[string]string{"body": "invalid JSON syntax"}
	}

	// in the event of a type mismatch

	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		field := jsonPathFromDotPath(rootType, unmatchedTypeError.Field)

		if field == "" {
			field = "body"
		}

		return map[string]string{
			field: fmt.Sprintf("%s must be of type %s", field, jsonTypeName(unmatchedTypeError.Type)),
		}
	}

	// final fallback if the error could not be deciphered
	return map[string]string{"body": err.Error()}
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return t.String()
	}
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

func jsonPathFromDotPath(rootType reflect.Type, dotPath string) string {
	dotPath = strings.TrimSpace(dotPath)
	if dotPath == "" {
		return ""
	}

	parts := strings.Split(dotPath, ".")
	out := make([]string, 0, len(parts))
	current := rootType

	for _, part := range parts {
		if part == "" {
			continue
		}

		name := part
		var next reflect.Type

		if current != nil && current.Kind() == reflect.Struct {
			// the decoder may report either the Go field name or the JSON key
			if sf, ok := current.FieldByName(part); ok {
				name = jsonNameFromStructField(sf)
				next = sf.Type
			}
		}

		out = append(out, name)
		current = next
	}

	return strings.Join(out, ".")
}

func jsonNameFromStructField(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" {
		return sf.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return sf.Name
	}

	return name
}
