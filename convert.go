// FILE: lixenwraith/flatconfig/convert.go
package flatconfig

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// conversionStrategy is the closed set of ways a stored value is turned into
// the type a caller asked for.
type conversionStrategy int

const (
	strategyDirect   conversionStrategy = iota // stored value already has the target type
	strategyNullable                           // Null[U] or *U; empty string is the empty state
	strategyString                             // string representation
	strategyEnum                               // target parses its own text form
	strategyNumeric                            // numbers, bool, duration, time
)

func (cs conversionStrategy) String() string {
	switch cs {
	case strategyDirect:
		return "direct"
	case strategyNullable:
		return "nullable"
	case strategyString:
		return "string"
	case strategyEnum:
		return "enum"
	case strategyNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// nullableTarget is implemented by Null[U].
type nullableTarget interface {
	assignFrom(raw any) error
}

// Null is an optional value. A missing key leaves the caller's default;
// a stored empty string (or null) yields Valid == false.
type Null[T any] struct {
	V     T
	Valid bool
}

func (n *Null[T]) assignFrom(raw any) error {
	if isEmptyRepresentation(raw) {
		*n = Null[T]{}
		return nil
	}
	v, err := convertValue[T](raw)
	if err != nil {
		return err
	}
	*n = Null[T]{V: v, Valid: true}
	return nil
}

// GetValue returns the value at key converted to T, or def when the key is
// absent. A value that cannot be converted is logged and def is returned;
// the error result is reserved for invalid arguments.
func GetValue[T any](s *Service, key string, def T) (T, error) {
	if s == nil {
		return def, invalidArgument("service cannot be nil")
	}
	if isBlank(key) {
		return def, invalidArgument("configuration key cannot be empty")
	}

	raw, ok := s.Get(key)
	if !ok {
		return def, nil
	}

	result, err := convertValue[T](raw)
	if err != nil {
		s.metrics.observeConversionFailure()
		s.logger.Warn("configuration value conversion failed, using default",
			"key", key, "target", fmt.Sprintf("%T", def), "error", err)
		return def, nil
	}
	return result, nil
}

// Duration returns key as a time.Duration, or def when absent or unconvertible.
func (s *Service) Duration(key string, def time.Duration) (time.Duration, error) {
	return GetValue(s, key, def)
}

// strategyFor selects the conversion for raw into T.
func strategyFor[T any](raw any) conversionStrategy {
	if _, ok := raw.(T); ok {
		return strategyDirect
	}

	var zero T
	switch any(&zero).(type) {
	case nullableTarget, **string, **int, **int64, **float64, **bool, **time.Duration:
		return strategyNullable
	case *string:
		return strategyString
	case *time.Time:
		// time.Time implements TextUnmarshaler but cast accepts more layouts
		return strategyNumeric
	case encoding.TextUnmarshaler:
		return strategyEnum
	default:
		return strategyNumeric
	}
}

// convertValue converts raw to T following the strategy chosen for it.
func convertValue[T any](raw any) (T, error) {
	var out T

	switch strategyFor[T](raw) {
	case strategyDirect:
		return raw.(T), nil

	case strategyNullable:
		err := convertNullable(&out, raw)
		return out, err

	case strategyString:
		s, err := cast.ToStringE(raw)
		if err != nil {
			return out, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		return any(s).(T), nil

	case strategyEnum:
		if raw == nil {
			return out, fmt.Errorf("%w: null has no %T representation", ErrConversion, out)
		}
		text, err := cast.ToStringE(raw)
		if err != nil {
			return out, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		if err := any(&out).(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return out, fmt.Errorf("%w: %q is not a valid %T: %v", ErrConversion, text, out, err)
		}
		return out, nil

	default:
		v, err := convertNumeric(any(out), raw)
		if err != nil {
			return out, err
		}
		return v.(T), nil
	}
}

// convertNullable fills the nullable target pointed to by target.
func convertNullable(target any, raw any) error {
	switch p := target.(type) {
	case nullableTarget:
		return p.assignFrom(raw)
	case **string:
		return assignOptional(p, raw)
	case **int:
		return assignOptional(p, raw)
	case **int64:
		return assignOptional(p, raw)
	case **float64:
		return assignOptional(p, raw)
	case **bool:
		return assignOptional(p, raw)
	case **time.Duration:
		return assignOptional(p, raw)
	default:
		return fmt.Errorf("%w: unsupported nullable target %T", ErrConversion, target)
	}
}

func assignOptional[U any](p **U, raw any) error {
	if isEmptyRepresentation(raw) {
		*p = nil
		return nil
	}
	v, err := convertValue[U](raw)
	if err != nil {
		return err
	}
	*p = &v
	return nil
}

// convertNumeric converts raw to the type of zero.
//
// Integer targets are range checked: a value that does not fit is a
// conversion failure, never a wrapped or truncated result. Floats are
// rounded half to even before they become integers. Strings are parsed as
// base-10 literals of the target kind, so "08" is 8 and "0x10" is rejected.
// A null value has no numeric, bool, duration or time form.
func convertNumeric(zero any, raw any) (any, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: null has no %T representation", ErrConversion, zero)
	}

	var (
		result any
		err    error
	)

	switch zero.(type) {
	case int, int64, int32, int16, int8:
		var n int64
		if n, err = toInt64(raw); err == nil {
			result, err = narrowInt(zero, n)
		}
	case uint, uint64, uint32, uint16, uint8:
		var n uint64
		if n, err = toUint64(raw); err == nil {
			result, err = narrowUint(zero, n)
		}
	case float64:
		result, err = toFloat(raw, 64)
	case float32:
		var f float64
		if f, err = toFloat(raw, 32); err == nil {
			result = float32(f)
		}
	case bool:
		result, err = cast.ToBoolE(raw)
	case time.Duration:
		result, err = cast.ToDurationE(raw)
	case time.Time:
		result, err = cast.ToTimeE(raw)
	default:
		return nil, fmt.Errorf("%w: unsupported target type %T for value %v (%T)", ErrConversion, zero, raw, raw)
	}

	if err != nil {
		if errors.Is(err, ErrConversion) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return result, nil
}

// outOfRange reports a value that has no representation in the target type.
func outOfRange(raw any, target string) error {
	return fmt.Errorf("%w: %v (%T) is out of range for %s", ErrConversion, raw, raw, target)
}

// roundFloat rounds f half to even and rejects NaN and infinities.
func roundFloat(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v is not a finite number", ErrConversion, f)
	}
	return math.RoundToEven(f), nil
}

// toInt64 widens raw to int64.
func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case float64, float32:
		f, err := roundFloat(cast.ToFloat64(v))
		if err != nil {
			return 0, err
		}
		// 2^63 is the first float64 above MaxInt64
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, outOfRange(raw, "int64")
		}
		return int64(f), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, outOfRange(raw, "int64")
		}
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, outOfRange(raw, "int64")
		}
		return int64(v), nil
	default:
		return cast.ToInt64E(raw)
	}
}

// toUint64 widens raw to uint64. Negative values are out of range.
func toUint64(raw any) (uint64, error) {
	switch v := raw.(type) {
	case string:
		return strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	case float64, float32:
		f, err := roundFloat(cast.ToFloat64(v))
		if err != nil {
			return 0, err
		}
		// 2^64 is the first float64 above MaxUint64
		if f < 0 || f >= math.MaxUint64 {
			return 0, outOfRange(raw, "uint64")
		}
		return uint64(f), nil
	case uint:
		return uint64(v), nil
	case uint64:
		return v, nil
	default:
		n, err := toInt64(raw)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, outOfRange(raw, "uint64")
		}
		return uint64(n), nil
	}
}

// narrowInt converts n to the signed integer type of zero.
func narrowInt(zero any, n int64) (any, error) {
	switch zero.(type) {
	case int:
		if n < math.MinInt || n > math.MaxInt {
			return nil, outOfRange(n, "int")
		}
		return int(n), nil
	case int32:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, outOfRange(n, "int32")
		}
		return int32(n), nil
	case int16:
		if n < math.MinInt16 || n > math.MaxInt16 {
			return nil, outOfRange(n, "int16")
		}
		return int16(n), nil
	case int8:
		if n < math.MinInt8 || n > math.MaxInt8 {
			return nil, outOfRange(n, "int8")
		}
		return int8(n), nil
	default:
		return n, nil
	}
}

// narrowUint converts n to the unsigned integer type of zero.
func narrowUint(zero any, n uint64) (any, error) {
	switch zero.(type) {
	case uint:
		if n > math.MaxUint {
			return nil, outOfRange(n, "uint")
		}
		return uint(n), nil
	case uint32:
		if n > math.MaxUint32 {
			return nil, outOfRange(n, "uint32")
		}
		return uint32(n), nil
	case uint16:
		if n > math.MaxUint16 {
			return nil, outOfRange(n, "uint16")
		}
		return uint16(n), nil
	case uint8:
		if n > math.MaxUint8 {
			return nil, outOfRange(n, "uint8")
		}
		return uint8(n), nil
	default:
		return n, nil
	}
}

// toFloat converts raw to a float that fits in bitSize bits.
func toFloat(raw any, bitSize int) (float64, error) {
	if s, ok := raw.(string); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), bitSize)
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, err
	}
	if bitSize == 32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return 0, outOfRange(raw, "float32")
	}
	return f, nil
}

// isEmptyRepresentation reports a value that stands for "no value" in a nullable.
func isEmptyRepresentation(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && s == ""
}

// EnumSet maps symbolic names to values and parses them case-insensitively.
// Enum types typically call Parse from their UnmarshalText method so that
// GetValue can resolve them.
type EnumSet[T comparable] map[string]T

// Parse returns the value whose name matches s, ignoring case and surrounding space.
func (e EnumSet[T]) Parse(s string) (T, error) {
	s = strings.TrimSpace(s)
	for name, v := range e {
		if strings.EqualFold(name, s) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: unknown name %q", ErrConversion, s)
}

// Name returns the symbolic name of v, or "" when v has none.
func (e EnumSet[T]) Name(v T) string {
	for name, candidate := range e {
		if candidate == v {
			return name
		}
	}
	return ""
}
