package validator

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/asaskevich/govalidator"
)

var (
	ErrInvalidJSON    = errors.New("invalid json")
	ErrInvalidRequest = errors.New("invalid request")
)

type JSON struct {
	MaxBytes int64
}

func NewJSON() *JSON {
	return &JSON{MaxBytes: 1 << 16}
}

// Decode reads exactly one JSON document into dst and rejects unknown fields.
func (v *JSON) Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, v.MaxBytes)
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return ErrInvalidJSON
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrInvalidJSON
	}
	return nil
}

// DecodeValid decodes dst then checks its `valid` struct tags.
func (v *JSON) DecodeValid(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := v.Decode(w, r, dst); err != nil {
		return err
	}
	return Struct(dst)
}

// Struct checks the `valid` tags of s. The returned error keeps the field
// messages and matches ErrInvalidRequest.
func Struct(s any) error {
	if _, err := govalidator.ValidateStruct(s); err != nil {
		return errors.Join(ErrInvalidRequest, err)
	}
	return nil
}
