package signer

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pixix4/wallet-pass/internal/domain/pass"
)

// Request field names.
const (
	fieldBundle     = "bundle"
	fieldForce      = "force"
	fieldDescriptor = "descriptor"
)

var (
	// ErrBadRequest marks requests that cannot be decoded.
	ErrBadRequest = errors.New("bad sign request")

	errBundleRequired = errors.New("bundle is required")
)

// Request is the decoded form of a SignBundle request.
type Request struct {
	// Bundle is the bundle directory, relative to the server bundle root when one is set.
	Bundle string
	// Force removes existing signing artifacts before signing.
	Force bool
	// Descriptor, when set, replaces pass.json in the signed archive.
	Descriptor *pass.Pass
}

// EncodeRequest converts r to its wire form.
func EncodeRequest(r *Request) (*structpb.Struct, error) {
	if r == nil || r.Bundle == "" {
		return nil, errBundleRequired
	}

	fields := map[string]any{
		fieldBundle: r.Bundle,
		fieldForce:  r.Force,
	}

	if r.Descriptor != nil {
		data, err := pass.Marshal(r.Descriptor)
		if err != nil {
			return nil, err
		}

		var descriptor map[string]any
		if err = json.Unmarshal(data, &descriptor); err != nil {
			return nil, fmt.Errorf("encode descriptor: %w", err)
		}

		fields[fieldDescriptor] = descriptor
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	return s, nil
}

// DecodeRequest converts a wire request. Unknown fields and wrongly typed
// values are rejected with ErrBadRequest.
func DecodeRequest(s *structpb.Struct) (*Request, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, errBundleRequired)
	}

	r := new(Request)

	for name, value := range s.GetFields() {
		switch name {
		case fieldBundle:
			v, ok := value.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a string", ErrBadRequest, name)
			}

			r.Bundle = v.StringValue
		case fieldForce:
			v, ok := value.GetKind().(*structpb.Value_BoolValue)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a boolean", ErrBadRequest, name)
			}

			r.Force = v.BoolValue
		case fieldDescriptor:
			descriptor, err := decodeDescriptor(value)
			if err != nil {
				return nil, err
			}

			r.Descriptor = descriptor
		default:
			return nil, fmt.Errorf("%w: unknown field %q", ErrBadRequest, name)
		}
	}

	if r.Bundle == "" {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, errBundleRequired)
	}

	return r, nil
}

func decodeDescriptor(value *structpb.Value) (*pass.Pass, error) {
	if _, ok := value.GetKind().(*structpb.Value_NullValue); ok {
		return nil, nil //nolint:nilnil // An explicit null means no descriptor.
	}

	obj := value.GetStructValue()
	if obj == nil {
		return nil, fmt.Errorf("%w: %s must be an object", ErrBadRequest, fieldDescriptor)
	}

	data, err := protojson.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	p, err := pass.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	return p, nil
}
