package transforms

import (
	"fmt"
	"reflect"
)

// TransformDefinition overwrites fields on records of Type whose string
// fields equal every value in Match. Type is the package qualified name,
// eg. ctdf.TripRecord, and an empty Type matches any record.
type TransformDefinition struct {
	Type  string                 `yaml:"type"`
	Match map[string]string      `yaml:"match"`
	Data  map[string]interface{} `yaml:"data"`
}

func (t *TransformDefinition) Transform(inputTypeOf reflect.Type, inputValue reflect.Value) {
	if !inputValue.IsValid() || inputValue.Kind() != reflect.Struct {
		return
	}

	if t.Type != "" && t.Type != inputTypeOf.String() {
		return
	}

	for key, value := range t.Match {
		field := inputValue.FieldByName(key)
		if !field.IsValid() || !field.CanInterface() || fmt.Sprint(field.Interface()) != value {
			return
		}
	}

	for key, value := range t.Data {
		field := inputValue.FieldByName(key)
		if !field.IsValid() || !field.CanSet() {
			continue
		}

		newValue := reflect.ValueOf(value)
		if !newValue.IsValid() || !newValue.Type().ConvertibleTo(field.Type()) {
			continue
		}

		field.Set(newValue.Convert(field.Type()))
	}
}

// Transform applies every registered definition to input, which has to be a
// pointer to a struct or a slice of them
func Transform(input interface{}) {
	if input == nil {
		return
	}

	inputTypeOf := reflect.TypeOf(input)
	inputValueOf := reflect.ValueOf(input)

	if inputTypeOf.Kind() == reflect.Slice {
		for i := 0; i < inputValueOf.Len(); i++ {
			indexInput := inputValueOf.Index(i).Interface()
			transformValue(reflect.TypeOf(indexInput), reflect.ValueOf(indexInput))
		}
	} else {
		transformValue(inputTypeOf, inputValueOf)
	}
}

func transformValue(inputTypeOf reflect.Type, inputValueOf reflect.Value) {
	if inputTypeOf == nil || inputTypeOf.Kind() != reflect.Pointer || inputValueOf.IsNil() {
		return
	}

	inputValue := inputValueOf.Elem()

	transformsLock.RLock()
	defer transformsLock.RUnlock()

	for _, transformDef := range transforms {
		transformDef.Transform(inputTypeOf.Elem(), inputValue)
	}
}
