package soap

import (
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"
)

const DefaultNamespace = "http://www.trapezegroup.com/"

const envelopeOpen = `<?xml version="1.0" encoding="utf-8"?>` +
	`<soap:Envelope xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">` +
	`<soap:Body>`
const envelopeClose = `</soap:Body></soap:Envelope>`

// Param is a single child element of a request. Params keep the order they
// are declared in as the backend validates element order.
type Param struct {
	Key   string
	Value any
}

type Params []Param

// Raw is written into the request verbatim. Use it for repeated elements,
// the backend has no single schema for lists.
type Raw string

type Codec struct {
	Namespace string
}

func NewCodec(namespace string) Codec {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return Codec{Namespace: namespace}
}

func (c Codec) SOAPAction(operation string) string {
	return c.Namespace + operation
}

// Envelope builds the full request body for operation
func (c Codec) Envelope(operation string, params Params) string {
	var builder strings.Builder

	builder.WriteString(envelopeOpen)
	fmt.Fprintf(&builder, `<%s xmlns="%s">`, operation, c.Namespace)
	writeParams(&builder, params)
	fmt.Fprintf(&builder, `</%s>`, operation)
	builder.WriteString(envelopeClose)

	return builder.String()
}

// Fragment renders params without any envelope, for building Raw values
func Fragment(params Params) Raw {
	var builder strings.Builder
	writeParams(&builder, params)

	return Raw(builder.String())
}

// Optional turns an empty string into an omitted element
func Optional(value string) any {
	if value == "" {
		return nil
	}

	return value
}

func writeParams(builder *strings.Builder, params Params) {
	for _, param := range params {
		value, ok := resolveValue(param.Value)
		if !ok {
			continue
		}

		builder.WriteString("<" + param.Key + ">")

		switch v := value.(type) {
		case Params:
			writeParams(builder, v)
		case Raw:
			builder.WriteString(string(v))
		case string:
			writeEscaped(builder, v)
		case fmt.Stringer:
			writeEscaped(builder, v.String())
		case bool:
			if v {
				builder.WriteString("true")
			} else {
				builder.WriteString("false")
			}
		default:
			writeEscaped(builder, fmt.Sprint(v))
		}

		builder.WriteString("</" + param.Key + ">")
	}
}

// resolveValue dereferences pointers and reports false for nil values
func resolveValue(value any) (any, bool) {
	if value == nil {
		return nil, false
	}

	reflected := reflect.ValueOf(value)
	for reflected.Kind() == reflect.Pointer {
		if reflected.IsNil() {
			return nil, false
		}
		reflected = reflected.Elem()
	}

	return reflected.Interface(), true
}

func writeEscaped(builder *strings.Builder, text string) {
	xml.EscapeText(builder, []byte(text))
}
