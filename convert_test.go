// FILE: lixenwraith/flatconfig/convert_test.go
package flatconfig

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelError
)

var logLevels = EnumSet[logLevel]{
	"debug": levelDebug,
	"info":  levelInfo,
	"error": levelError,
}

func (l *logLevel) UnmarshalText(text []byte) error {
	v, err := logLevels.Parse(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l logLevel) String() string {
	return logLevels.Name(l)
}

func newValueService(t *testing.T, values FlatMap) *Service {
	t.Helper()
	svc := New()
	for k, v := range values {
		require.NoError(t, svc.SetValue(k, v))
	}
	return svc
}

// TestGetValue tests typed lookups across the conversion strategies
func TestGetValue(t *testing.T) {
	svc := newValueService(t, FlatMap{
		"str.int":      "42",
		"str.bool":     "true",
		"str.float":    "2.5",
		"str.duration": "1m30s",
		"str.time":     "2024-03-01T10:00:00Z",
		"str.garbage":  "not-a-number",
		"str.empty":    "",
		"num.int64":    int64(7),
		"num.float":    3.0,
		"num.int":      9,
		"bool":         true,
		"level":        " Error ",
		"level.bad":    "verbose",
		"nil":          nil,
	})

	t.Run("Direct", func(t *testing.T) {
		v, err := GetValue(svc, "num.int64", int64(0))
		require.NoError(t, err)
		assert.Equal(t, int64(7), v)

		s, err := GetValue(svc, "str.int", "")
		require.NoError(t, err)
		assert.Equal(t, "42", s)

		raw, err := GetValue[any](svc, "num.int", nil)
		require.NoError(t, err)
		assert.Equal(t, 9, raw)
	})

	t.Run("StringToScalars", func(t *testing.T) {
		i, err := GetValue(svc, "str.int", 0)
		require.NoError(t, err)
		assert.Equal(t, 42, i)

		b, err := GetValue(svc, "str.bool", false)
		require.NoError(t, err)
		assert.True(t, b)

		f, err := GetValue(svc, "str.float", 0.0)
		require.NoError(t, err)
		assert.Equal(t, 2.5, f)

		u, err := GetValue(svc, "str.int", uint16(0))
		require.NoError(t, err)
		assert.Equal(t, uint16(42), u)
	})

	t.Run("NumericWidening", func(t *testing.T) {
		i, err := svc.Int("num.int64", 0)
		require.NoError(t, err)
		assert.Equal(t, 7, i)

		f, err := svc.Float64("num.int64", 0)
		require.NoError(t, err)
		assert.Equal(t, 7.0, f)

		n, err := svc.Int64("num.float", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("ToString", func(t *testing.T) {
		s, err := svc.String("num.int64", "")
		require.NoError(t, err)
		assert.Equal(t, "7", s)

		s, err = svc.String("bool", "")
		require.NoError(t, err)
		assert.Equal(t, "true", s)
	})

	t.Run("DurationAndTime", func(t *testing.T) {
		d, err := svc.Duration("str.duration", 0)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, d)

		ts, err := GetValue(svc, "str.time", time.Time{})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), ts.UTC())
	})

	t.Run("MissingKeyReturnsDefault", func(t *testing.T) {
		v, err := GetValue(svc, "NonExistent", "fallback")
		require.NoError(t, err)
		assert.Equal(t, "fallback", v)

		n, err := svc.Int("NonExistent", 5)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	})

	t.Run("ConversionFailureReturnsDefault", func(t *testing.T) {
		n, err := svc.Int("str.garbage", 8080)
		require.NoError(t, err)
		assert.Equal(t, 8080, n)

		b, err := svc.Bool("str.garbage", true)
		require.NoError(t, err)
		assert.True(t, b)

		d, err := svc.Duration("str.garbage", time.Second)
		require.NoError(t, err)
		assert.Equal(t, time.Second, d)
	})

	t.Run("UnsupportedTargetReturnsDefault", func(t *testing.T) {
		def := struct{ A int }{A: 1}
		v, err := GetValue(svc, "str.int", def)
		require.NoError(t, err)
		assert.Equal(t, def, v)
	})

	t.Run("Enum", func(t *testing.T) {
		level, err := GetValue(svc, "level", levelInfo)
		require.NoError(t, err)
		assert.Equal(t, levelError, level)
		assert.Equal(t, "error", level.String())

		level, err = GetValue(svc, "level.bad", levelInfo)
		require.NoError(t, err)
		assert.Equal(t, levelInfo, level)
	})

	t.Run("NullWrapper", func(t *testing.T) {
		port, err := GetValue(svc, "str.int", Null[int]{})
		require.NoError(t, err)
		assert.Equal(t, Null[int]{V: 42, Valid: true}, port)

		empty, err := GetValue(svc, "str.empty", Null[int]{V: 1, Valid: true})
		require.NoError(t, err)
		assert.False(t, empty.Valid)

		null, err := GetValue(svc, "nil", Null[string]{V: "x", Valid: true})
		require.NoError(t, err)
		assert.Equal(t, Null[string]{}, null)

		missing, err := GetValue(svc, "NonExistent", Null[int]{V: 1, Valid: true})
		require.NoError(t, err)
		assert.Equal(t, Null[int]{V: 1, Valid: true}, missing)

		bad, err := GetValue(svc, "str.garbage", Null[int]{V: 2, Valid: true})
		require.NoError(t, err)
		assert.Equal(t, Null[int]{V: 2, Valid: true}, bad)
	})

	t.Run("Pointers", func(t *testing.T) {
		p, err := GetValue[*int](svc, "str.int", nil)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, 42, *p)

		s, err := GetValue[*string](svc, "str.empty", nil)
		require.NoError(t, err)
		assert.Nil(t, s)

		fallback := 10 * time.Second
		d, err := GetValue(svc, "str.duration", &fallback)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, 90*time.Second, *d)
		assert.Equal(t, 10*time.Second, fallback)
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		_, err := GetValue(svc, "", 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		v, err := GetValue[int](nil, "a", 4)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, 4, v)
	})
}

// TestNumericConversion tests range checks, rounding and decimal parsing
func TestNumericConversion(t *testing.T) {
	svc := newValueService(t, FlatMap{
		"i127":    int64(127),
		"i300":    int64(300),
		"i1p40":   int64(1 << 40),
		"neg":     int64(-1),
		"umax":    uint64(math.MaxUint64),
		"f39":     3.9,
		"f25":     2.5,
		"fhuge":   1e300,
		"nan":     math.NaN(),
		"s08":     "08",
		"s010":    "010",
		"s0x10":   "0x10",
		"spad":    " 0042 ",
		"s300":    "300",
		"sneg128": "-128",
		"sneg":    "-5",
		"sfloat":  "3.9",
	})

	get := func(key string, def any) any {
		var (
			v   any
			err error
		)
		switch d := def.(type) {
		case int:
			v, err = GetValue(svc, key, d)
		case int8:
			v, err = GetValue(svc, key, d)
		case int16:
			v, err = GetValue(svc, key, d)
		case int32:
			v, err = GetValue(svc, key, d)
		case int64:
			v, err = GetValue(svc, key, d)
		case uint:
			v, err = GetValue(svc, key, d)
		case uint8:
			v, err = GetValue(svc, key, d)
		case uint16:
			v, err = GetValue(svc, key, d)
		case uint32:
			v, err = GetValue(svc, key, d)
		case uint64:
			v, err = GetValue(svc, key, d)
		case float32:
			v, err = GetValue(svc, key, d)
		case float64:
			v, err = GetValue(svc, key, d)
		default:
			t.Fatalf("unhandled default type %T", def)
		}
		require.NoError(t, err)
		return v
	}

	tests := []struct {
		name string
		key  string
		def  any
		want any
	}{
		{"Int8Fits", "i127", int8(7), int8(127)},
		{"Int8Overflow", "i300", int8(7), int8(7)},
		{"Int8MinFromString", "sneg128", int8(7), int8(-128)},
		{"Int16Fits", "i300", int16(7), int16(300)},
		{"Int16Overflow", "i1p40", int16(7), int16(7)},
		{"Int32Fits", "i300", int32(7), int32(300)},
		{"Int32Overflow", "i1p40", int32(7), int32(7)},
		{"Int64FromMaxUint", "umax", int64(7), int64(7)},
		{"IntRoundsUp", "f39", 7, 4},
		{"IntRoundsHalfToEven", "f25", 7, 2},
		{"IntFromHugeFloat", "fhuge", 7, 7},
		{"IntFromNaN", "nan", 7, 7},
		{"Uint8Overflow", "i300", uint8(7), uint8(7)},
		{"Uint8Negative", "neg", uint8(7), uint8(7)},
		{"Uint8FromString", "s300", uint8(7), uint8(7)},
		{"Uint16Fits", "i300", uint16(7), uint16(300)},
		{"Uint32Overflow", "i1p40", uint32(7), uint32(7)},
		{"UintNegative", "neg", uint(7), uint(7)},
		{"UintNegativeString", "sneg", uint(7), uint(7)},
		{"Uint64Max", "umax", uint64(7), uint64(math.MaxUint64)},
		{"Float32Overflow", "fhuge", float32(7), float32(7)},
		{"Float32Fits", "f25", float32(7), float32(2.5)},
		{"ZeroPaddedDecimal", "s08", 7, 8},
		{"LeadingZeroIsNotOctal", "s010", 7, 10},
		{"HexRejected", "s0x10", 7, 7},
		{"SurroundingSpace", "spad", 7, 42},
		{"DecimalStringToInt", "sfloat", 7, 7},
		{"ZeroPaddedFloat", "s010", 7.5, 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, get(tt.key, tt.def))
		})
	}
}

// TestNullConversion tests that a stored null falls back for non-nullable targets
func TestNullConversion(t *testing.T) {
	svc := newValueService(t, FlatMap{"null": nil})

	n, err := svc.Int("null", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	b, err := svc.Bool("null", true)
	require.NoError(t, err)
	assert.True(t, b)

	f, err := svc.Float64("null", 1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	d, err := svc.Duration("null", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	u, err := GetValue(svc, "null", uint8(3))
	require.NoError(t, err)
	assert.Equal(t, uint8(3), u)

	level, err := GetValue(svc, "null", levelInfo)
	require.NoError(t, err)
	assert.Equal(t, levelInfo, level)

	// Nullable targets still see the empty state
	null, err := GetValue(svc, "null", Null[int]{V: 1, Valid: true})
	require.NoError(t, err)
	assert.False(t, null.Valid)
}

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		name string
		got  conversionStrategy
		want conversionStrategy
	}{
		{"SameType", strategyFor[string]("x"), strategyDirect},
		{"StringTarget", strategyFor[string](1), strategyString},
		{"NullWrapper", strategyFor[Null[int]]("1"), strategyNullable},
		{"Pointer", strategyFor[*bool]("true"), strategyNullable},
		{"Enum", strategyFor[logLevel]("info"), strategyEnum},
		{"Time", strategyFor[time.Time]("2024-01-01"), strategyNumeric},
		{"Number", strategyFor[int]("1"), strategyNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got, "got %s", tt.got)
		})
	}
}

func TestEnumSet(t *testing.T) {
	v, err := logLevels.Parse("  INFO")
	require.NoError(t, err)
	assert.Equal(t, levelInfo, v)

	_, err = logLevels.Parse("trace")
	assert.ErrorIs(t, err, ErrConversion)

	assert.Equal(t, "debug", logLevels.Name(levelDebug))
	assert.Equal(t, "", logLevels.Name(logLevel(99)))
	assert.Equal(t, "error", fmt.Sprint(levelError))
}
