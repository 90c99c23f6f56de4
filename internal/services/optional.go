package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Optional* distinguish an absent JSON field (Set=false) from an explicit
// null (Set=true, Value=nil) in PATCH bodies.

type OptionalUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (o *OptionalUUID) UnmarshalJSON(data []byte) error {
	o.Set = true
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		o.Value = nil
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	o.Value = &id
	return nil
}

type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		o.Value = nil
		return nil
	}
	o.Value = &s
	return nil
}

type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

type OptionalStrings struct {
	Set   bool
	Value []string
}

func (o *OptionalStrings) UnmarshalJSON(data []byte) error {
	o.Set = true
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v []string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	return nil
}

func SomeString(s string) OptionalString { return OptionalString{Set: true, Value: &s} }

func SomeTime(t time.Time) OptionalTime { return OptionalTime{Set: true, Value: &t} }

func SomeUUID(id uuid.UUID) OptionalUUID { return OptionalUUID{Set: true, Value: &id} }

// mergeJSONObjects overlays patch keys onto base. A nil patch value removes the key.
func mergeJSONObjects(base json.RawMessage, patch map[string]any) (json.RawMessage, error) {
	var baseObj map[string]any
	if len(base) > 0 {
		// UseNumber keeps integers of unknown keys exact across the round trip.
		dec := json.NewDecoder(bytes.NewReader(base))
		dec.UseNumber()
		if err := dec.Decode(&baseObj); err != nil {
			return nil, err
		}
	}
	if baseObj == nil {
		baseObj = map[string]any{}
	}
	for k, v := range patch {
		if v == nil {
			delete(baseObj, k)
			continue
		}
		baseObj[k] = v
	}
	merged, err := json.Marshal(baseObj)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(merged), nil
}
