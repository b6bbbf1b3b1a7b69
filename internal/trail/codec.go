package trail

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// EnvelopeKey is the list key of the export envelope.
const EnvelopeKey = "routes"

// Format selects how distance band labels are written on the way out.
type Format int

const (
	// Legacy writes labels under avg_daily_distance_<position+1>.
	Legacy Format = iota
	// Canonical writes labels under "label".
	Canonical
)

// ParseFormat maps a query value to a Format. Anything but "canonical" is
// Legacy.
func ParseFormat(s string) Format {
	if s == "canonical" {
		return Canonical
	}
	return Legacy
}

// ParseEnvelope decodes a JSON body into wire route documents. A body that
// is a bare route yields one document; an envelope yields one per element.
func ParseEnvelope(body []byte) ([]Document, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&raw); err != nil {
		verr := &ValidationError{}
		verr.Add("", CodeInvalid, fmt.Sprintf("malformed JSON: %v", err))
		return nil, verr
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		verr := &ValidationError{}
		verr.Add("", CodeInvalid, "malformed JSON: unexpected data after the top-level value")
		return nil, verr
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		verr := &ValidationError{}
		verr.Add("", CodeType, "body must be a JSON object")
		return nil, verr
	}
	list, isEnvelope := doc[EnvelopeKey]
	if !isEnvelope {
		return []Document{doc}, nil
	}
	items, ok := list.([]any)
	if !ok {
		verr := &ValidationError{}
		verr.Add(EnvelopeKey, CodeType, "must be an array")
		return nil, verr
	}
	docs := make([]Document, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			verr := &ValidationError{}
			verr.Add(indexed(EnvelopeKey, i), CodeType, "must be an object")
			return nil, verr
		}
		docs = append(docs, m)
	}
	return docs, nil
}

// ParseDocument decodes a create or update body. Only the first element of
// an envelope is honored.
func ParseDocument(body []byte) (Document, error) {
	docs, err := ParseEnvelope(body)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		verr := &ValidationError{}
		verr.Add(EnvelopeKey, CodeRequired, "must contain at least one route")
		return nil, verr
	}
	return docs[0], nil
}

// Decoder runs the inbound chain: normalize labels, map names, validate.
type Decoder struct {
	validator *Validator
}

func NewDecoder(v *Validator) *Decoder {
	if v == nil {
		v = NewValidator()
	}
	return &Decoder{validator: v}
}

// Validator returns the validator used by d.
func (d *Decoder) Validator() *Validator {
	return d.validator
}

// Decode parses and validates a create or update body.
func (d *Decoder) Decode(body []byte) (Route, error) {
	doc, err := ParseDocument(body)
	if err != nil {
		return Route{}, err
	}
	return d.DecodeDocument(doc)
}

// DecodeDocument validates one wire route document.
func (d *Decoder) DecodeDocument(doc Document) (Route, error) {
	return d.validator.Validate(ToInternal(NormalizeDocument(doc)))
}

// DecodeLenient converts a wire route document without failing.
func (d *Decoder) DecodeLenient(doc Document) Route {
	return d.validator.Lenient(ToInternal(NormalizeDocument(doc)))
}

// ToDocument converts a typed route to its internal untyped form.
func ToDocument(route Route) (Document, error) {
	route.Fill()
	b, err := json.Marshal(route)
	if err != nil {
		return nil, fmt.Errorf("marshal route %q: %w", route.RouteID, err)
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal route %q: %w", route.RouteID, err)
	}
	return doc, nil
}

// ExternalDocument runs the outbound chain for one route.
func ExternalDocument(route Route, format Format) (Document, error) {
	doc, err := ToDocument(route)
	if err != nil {
		return nil, err
	}
	ext := ToExternal(doc)
	if format == Legacy {
		ext = DenormalizeDocument(ext)
	}
	return ext, nil
}

// Envelope wraps routes in the list envelope.
func Envelope(routes []Route, format Format) (Document, error) {
	items := make([]any, 0, len(routes))
	for _, r := range routes {
		doc, err := ExternalDocument(r, format)
		if err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	return Document{EnvelopeKey: items}, nil
}

// EncodeEnvelope renders the envelope as 2-space indented JSON.
func EncodeEnvelope(routes []Route, format Format) ([]byte, error) {
	env, err := Envelope(routes, format)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode routes: %w", err)
	}
	return append(b, '\n'), nil
}
