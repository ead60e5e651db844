package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"contentboard/internal/script"
)

var (
	ErrCyclic      = errors.New("cyclic value cannot be serialized")
	ErrUnsupported = errors.New("value cannot be serialized")
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const indentUnit = "  "

// Serialize renders v as text that Deserialize turns back into an equivalent
// value. Sequences and mappings put one element per line, indented two spaces
// per depth; callables are emitted as their source; everything else is JSON.
func Serialize(v any) (string, error) {
	s := serializer{active: map[visitKey]bool{}}
	var b strings.Builder
	if err := s.write(&b, v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

type visitKey struct {
	ptr  uintptr
	size int
	kind reflect.Kind
}

type serializer struct {
	active map[visitKey]bool
}

func (s serializer) write(b *strings.Builder, v any, depth int) error {
	switch val := v.(type) {
	case script.Script:
		b.WriteString(val.Source)
		return nil
	case *script.Script:
		if val == nil {
			b.WriteString("null")
			return nil
		}
		b.WriteString(val.Source)
		return nil
	case []any:
		return s.writeSequence(b, val, depth)
	case Map:
		return s.writeMap(b, val, depth)
	case *Map:
		if val == nil {
			b.WriteString("null")
			return nil
		}
		return s.writeMap(b, *val, depth)
	case map[string]any:
		return s.writeGoMap(b, val, depth)
	case []string:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = item
		}
		return s.writeSequence(b, items, depth)
	}
	return writeScalar(b, v)
}

func (s serializer) enter(v any) (visitKey, error) {
	rv := reflect.ValueOf(v)
	if rv.Len() == 0 {
		return visitKey{}, nil
	}
	key := visitKey{ptr: rv.Pointer(), size: rv.Len(), kind: rv.Kind()}
	if s.active[key] {
		return visitKey{}, ErrCyclic
	}
	s.active[key] = true
	return key, nil
}

func (s serializer) leave(key visitKey) {
	delete(s.active, key)
}

func (s serializer) writeSequence(b *strings.Builder, items []any, depth int) error {
	if len(items) == 0 {
		b.WriteString("[]")
		return nil
	}
	key, err := s.enter(items)
	if err != nil {
		return err
	}
	defer s.leave(key)

	b.WriteString("[\n")
	for i, item := range items {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(strings.Repeat(indentUnit, depth+1))
		if err := s.write(b, item, depth+1); err != nil {
			return err
		}
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("]")
	return nil
}

func (s serializer) writeMap(b *strings.Builder, m Map, depth int) error {
	if len(m) == 0 {
		b.WriteString("{}")
		return nil
	}
	key, err := s.enter([]Entry(m))
	if err != nil {
		return err
	}
	defer s.leave(key)

	b.WriteString("{\n")
	for i, e := range m {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(strings.Repeat(indentUnit, depth+1))
		b.WriteString(formatKey(e.Key))
		b.WriteString(": ")
		if err := s.write(b, e.Value, depth+1); err != nil {
			return fmt.Errorf("key %q: %w", e.Key, err)
		}
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("}")
	return nil
}

func (s serializer) writeGoMap(b *strings.Builder, m map[string]any, depth int) error {
	if len(m) == 0 {
		b.WriteString("{}")
		return nil
	}
	key, err := s.enter(m)
	if err != nil {
		return err
	}
	defer s.leave(key)

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make(Map, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, Entry{Key: k, Value: m[k]})
	}
	return s.writeMap(b, ordered, depth)
}

func formatKey(k string) string {
	if identRe.MatchString(k) {
		return k
	}
	return quote(k)
}

func writeScalar(b *strings.Builder, v any) error {
	switch val := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(val))
	case string:
		b.WriteString(quote(val))
	case int:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case int8:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case int16:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		b.WriteString(strconv.FormatInt(val, 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint8:
		b.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint16:
		b.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(val, 10))
	case float32:
		return writeFloat(b, float64(val))
	case float64:
		return writeFloat(b, val)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
	return nil
}

// writeFloat keeps a fraction or exponent marker on every float so that
// Deserialize reads it back as float64 rather than int64.
func writeFloat(b *strings.Builder, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %v", ErrUnsupported, f)
	}
	out := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(out, ".eE") {
		out += ".0"
	}
	b.WriteString(out)
	return nil
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
