package entsoe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/gridwatch/entsoe-go/schema"
)

// defaultIgnoredFields are dropped from flattened records unless the caller
// overrides them. Document and series mRIDs are request-scoped identifiers:
// they differ between otherwise identical observations and carry no
// analytical meaning.
var defaultIgnoredFields = []string{"m_rid", "time_series.m_rid"}

// Record is one flat observation row: dotted-path field names mapped to
// scalar values, preserving the order in which the fields were encountered
// while walking the document.
type Record struct {
	keys   []string
	values map[string]interface{}
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]interface{})}
}

// Set stores a value, appending the key on first sight. Setting an existing
// key overwrites the value but keeps the key's original position.
func (r *Record) Set(key string, value interface{}) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (interface{}, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field names in insertion order. The slice is shared with
// the record; callers must not modify it.
func (r *Record) Keys() []string { return r.keys }

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.keys) }

// Clone returns an independent copy.
func (r *Record) Clone() *Record {
	c := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]interface{}, len(r.values)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON renders the record as an object with fields in insertion
// order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// signature is an order-insensitive fingerprint used for deduplication.
// The value's type takes part so 1 and "1" stay distinct.
func (r *Record) signature() string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%T:%v;", k, r.values[k], r.values[k])
	}
	return b.String()
}

type extractOptions struct {
	domain      string
	ignored     map[string]bool
	deduplicate bool
}

// ExtractOption adjusts how ExtractRecords flattens documents.
type ExtractOption func(*extractOptions)

// WithDomain restricts flattening to the named top-level sub-structure,
// e.g. "time_series". The domain prefix is dropped from field names, so
// "time_series.period.resolution" becomes "period.resolution".
func WithDomain(name string) ExtractOption {
	return func(o *extractOptions) { o.domain = name }
}

// WithIgnoredFields replaces the default ignore list. Fields are matched by
// their full dotted path as it would appear in the record.
func WithIgnoredFields(fields ...string) ExtractOption {
	return func(o *extractOptions) {
		o.ignored = make(map[string]bool, len(fields))
		for _, f := range fields {
			o.ignored[f] = true
		}
	}
}

// WithoutDeduplication keeps records whose field sets are identical instead
// of dropping repeats.
func WithoutDeduplication() ExtractOption {
	return func(o *extractOptions) { o.deduplicate = false }
}

// ExtractRecords flattens documents into one record per leaf observation.
// Nested structures contribute dot-joined field names in declaration order;
// sequence-valued nodes branch the traversal, so every element yields its
// own records carrying a copy of the ancestor fields. Optional fields that
// are absent stay omitted, while fields the schema marks as always present
// appear with a null value when unset.
//
// Identical records are dropped keeping first-occurrence order; see
// WithoutDeduplication to keep them.
func ExtractRecords(docs []schema.Document, opts ...ExtractOption) ([]*Record, error) {
	options := extractOptions{
		ignored:     make(map[string]bool, len(defaultIgnoredFields)),
		deduplicate: true,
	}
	for _, f := range defaultIgnoredFields {
		options.ignored[f] = true
	}
	for _, opt := range opts {
		opt(&options)
	}

	var records []*Record
	if options.domain == "" {
		for _, doc := range docs {
			records = append(records, flattenAny(reflect.ValueOf(doc), "", &options)...)
		}
	} else {
		found := false
		for _, doc := range docs {
			v, ok := fieldByName(reflect.ValueOf(doc), options.domain)
			if !ok {
				continue
			}
			found = true
			records = append(records, flattenAny(v, "", &options)...)
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrDomainNotFound, options.domain)
		}
	}

	if options.deduplicate {
		records = dedupRecords(records)
	}
	return records, nil
}

// flattenAny dispatches on the value's kind. Structs flatten into records,
// sequences flatten element-wise, anything else is a single scalar record.
func flattenAny(v reflect.Value, prefix string, o *extractOptions) []*Record {
	v = indirect(v)
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Struct:
		return compactRecords(flattenStruct(v, prefix, o))
	case reflect.Slice, reflect.Array:
		var records []*Record
		for i := 0; i < v.Len(); i++ {
			records = append(records, flattenAny(v.Index(i), prefix, o)...)
		}
		return records
	default:
		rec := NewRecord()
		setField(rec, prefix, scalarValue(v), o)
		return compactRecords([]*Record{rec})
	}
}

// flattenStruct walks v's fields in declaration order, accumulating scalar
// fields onto every record built so far and branching on sequences: each
// element's records are cross-merged with the accumulated ones, so ancestor
// fields repeat per element.
func flattenStruct(v reflect.Value, prefix string, o *extractOptions) []*Record {
	records := []*Record{NewRecord()}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name, omitEmpty, ok := jsonFieldName(field)
		if !ok {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Ptr && fv.IsNil() {
			if omitEmpty {
				continue
			}
			// Present in the schema but unset: an explicit null.
			for _, rec := range records {
				setField(rec, key, nil, o)
			}
			continue
		}
		if omitEmpty && isEmptyValue(fv) {
			continue
		}

		elem := indirect(fv)
		switch elem.Kind() {
		case reflect.Struct:
			records = crossMerge(records, flattenStruct(elem, key, o))
		case reflect.Slice, reflect.Array:
			if elem.Len() == 0 {
				continue
			}
			var branched []*Record
			for j := 0; j < elem.Len(); j++ {
				branched = append(branched, flattenAny(elem.Index(j), key, o)...)
			}
			records = crossMerge(records, branched)
		default:
			val := scalarValue(elem)
			for _, rec := range records {
				setField(rec, key, val, o)
			}
		}
	}
	return records
}

// crossMerge combines every accumulated record with every branch record.
// Field order is preserved: ancestor fields first, branch fields after.
func crossMerge(base, branches []*Record) []*Record {
	if len(branches) == 0 {
		return base
	}
	merged := make([]*Record, 0, len(base)*len(branches))
	for _, b := range base {
		for _, branch := range branches {
			m := b.Clone()
			for _, k := range branch.keys {
				m.Set(k, branch.values[k])
			}
			merged = append(merged, m)
		}
	}
	return merged
}

// setField stores a value unless the key is on the ignore list.
func setField(rec *Record, key string, value interface{}, o *extractOptions) {
	if key == "" || o.ignored[key] {
		return
	}
	rec.Set(key, value)
}

// compactRecords drops records that ended up with no fields, which happens
// when everything a branch carried was ignored or omitted.
func compactRecords(records []*Record) []*Record {
	kept := records[:0]
	for _, rec := range records {
		if rec.Len() > 0 {
			kept = append(kept, rec)
		}
	}
	return kept
}

// dedupRecords drops records whose field set already appeared, preserving
// first-occurrence order.
func dedupRecords(records []*Record) []*Record {
	seen := make(map[string]bool, len(records))
	unique := make([]*Record, 0, len(records))
	for _, rec := range records {
		sig := rec.signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		unique = append(unique, rec)
	}
	return unique
}

// fieldByName finds the top-level struct field whose flattened name matches
// name.
func fieldByName(v reflect.Value, name string) (reflect.Value, bool) {
	v = indirect(v)
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		fieldName, _, ok := jsonFieldName(t.Field(i))
		if ok && fieldName == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// jsonFieldName resolves the flattened name of a struct field from its json
// tag, mirroring encoding/json: "-" hides the field, an empty name falls
// back to the Go field name.
func jsonFieldName(field reflect.StructField) (name string, omitEmpty, ok bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, false
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, p := range parts[1:] {
		if p == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, true
}

// indirect dereferences pointers and interfaces. Nil yields an invalid
// value.
func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// isEmptyValue mirrors encoding/json's omitempty test.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

// scalarValue converts a leaf into the plain Go value stored in records.
func scalarValue(v reflect.Value) interface{} {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Bool:
		return v.Bool()
	default:
		return v.Interface()
	}
}
