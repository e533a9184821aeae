// -----------------------------------------------------------------------
// Last Modified: Monday, 19th October 2026 4:10:00 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

// Key references let config values point at variables held in the KV store.
//
// Example:
//
//	[gemini]
//	api_key = "{gemini_api_key}"
//
// is resolved from the KV entry gemini_api_key once storage is open.
// Missing keys are logged and left unchanged.
package common

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/ternarybob/arbor"
)

// keyRefPattern matches {key-name} references: alphanumerics, hyphens and underscores
var keyRefPattern = regexp.MustCompile(`\{([a-zA-Z0-9_-]+)\}`)

// ReplaceKeyReferences substitutes every {key} in input with its KV value
func ReplaceKeyReferences(input string, kvMap map[string]string, logger arbor.ILogger) string {
	if input == "" {
		return input
	}

	return keyRefPattern.ReplaceAllStringFunc(input, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := kvMap[key]; ok {
			return value
		}
		logger.Warn().Str("key", key).Msg("Unresolved key reference")
		return match
	})
}

// ReplaceInStruct resolves key references in the exported string and []string
// fields of a struct pointer, descending into nested structs and struct pointers.
// Values are never logged since they usually hold secrets.
func ReplaceInStruct(v any, kvMap map[string]string, logger arbor.ILogger) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("ReplaceInStruct requires a non-nil pointer, got %T", v)
	}

	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("ReplaceInStruct requires a struct pointer, got pointer to %v", val.Kind())
	}

	replaceInStructValue(val, "", kvMap, logger)
	return nil
}

func replaceInStructValue(val reflect.Value, path string, kvMap map[string]string, logger arbor.ILogger) {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}

		name := typ.Field(i).Name
		if path != "" {
			name = path + "." + name
		}

		switch field.Kind() {
		case reflect.String:
			replaceStringValue(field, name, kvMap, logger)

		case reflect.Struct:
			replaceInStructValue(field, name, kvMap, logger)

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
				replaceInStructValue(field.Elem(), name, kvMap, logger)
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					replaceStringValue(field.Index(j), fmt.Sprintf("%s[%d]", name, j), kvMap, logger)
				}
			}
		}
	}
}

func replaceStringValue(field reflect.Value, name string, kvMap map[string]string, logger arbor.ILogger) {
	old := field.String()
	if replaced := ReplaceKeyReferences(old, kvMap, logger); replaced != old {
		field.SetString(replaced)
		logger.Debug().Str("field", name).Msg("Resolved key reference")
	}
}
