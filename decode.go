package strata

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Decode converts the merged tree into a value of the target type. Failures
// come back as *DecodeError carrying the target type's name. Field matching
// uses the `strata` struct tag when present and otherwise compares names
// with underscores stripped, so a database_url key finds a DatabaseURL
// field. Duration strings such as "5s" decode into time.Duration.
func Decode[T any](tree *Value) (*T, error) {
	var target T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &target,
		TagName: "strata",
		MatchName: func(mapKey, fieldName string) bool {
			return foldName(mapKey) == foldName(fieldName)
		},
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, &DecodeError{Type: typeName[T](), Err: err}
	}
	if err := dec.Decode(tree.ToAny()); err != nil {
		return nil, &DecodeError{Type: typeName[T](), Err: err}
	}
	return &target, nil
}

func foldName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

func typeName[T any]() string {
	var zero *T
	return reflect.TypeOf(zero).Elem().String()
}
