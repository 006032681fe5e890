package item

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	LabelData         = "ItemData"
	LabelOptionalData = "OptionalItemData"
	LabelItem         = "Item"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("finite", isFinite); err != nil {
		panic(err)
	}
	return v
}

// isFinite rejects NaN and infinities, which have no place in a sort key.
func isFinite(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return true
}

func ValidateData(data Data) error {
	return validateStruct(LabelData, data)
}

func ValidateOptionalData(data OptionalData) error {
	return validateStruct(LabelOptionalData, data)
}

func ValidateItem(it Item) error {
	return validateStruct(LabelItem, it)
}

// DecodeData parses a JSON ItemData document and validates it.
// Unknown keys are rejected and completed defaults to false.
func DecodeData(raw []byte) (Data, error) {
	var data Data
	if err := decodeStrict(raw, &data); err != nil {
		return Data{}, &ValidationError{Label: LabelData, Fields: []string{err.Error()}}
	}
	if err := ValidateData(data); err != nil {
		return Data{}, err
	}
	return data, nil
}

// DecodeOptionalData parses a JSON OptionalItemData document and validates it.
func DecodeOptionalData(raw []byte) (OptionalData, error) {
	var data OptionalData
	if err := decodeStrict(raw, &data); err != nil {
		return OptionalData{}, &ValidationError{Label: LabelOptionalData, Fields: []string{err.Error()}}
	}
	if err := ValidateOptionalData(data); err != nil {
		return OptionalData{}, err
	}
	return data, nil
}

func decodeStrict(raw []byte, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New("body is required")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after document")
	}
	return nil
}

func validateStruct(label string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%s: %w: %v", label, ErrInvalidData, err)
	}
	verr := &ValidationError{Label: label}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, fe.Field()+": "+fe.Tag())
	}
	return verr
}
