package evaluator

import (
	"fmt"
	"math"

	"github.com/jvasti/new-pkl/pkg/types"
)

// durationFactor returns the number of seconds in one unit.
func durationFactor(u types.DurationUnit) float64 {
	switch u {
	case types.UnitNanoseconds:
		return 1e-9
	case types.UnitMicroseconds:
		return 1e-6
	case types.UnitMilliseconds:
		return 1e-3
	case types.UnitSeconds:
		return 1
	case types.UnitMinutes:
		return 60
	case types.UnitHours:
		return 3600
	case types.UnitDays:
		return 86400
	default:
		panic(fmt.Sprintf("evaluator: unhandled duration unit %d", u))
	}
}

// dataFactor returns the number of bytes in one unit. Decimal units are
// powers of 1000, binary units powers of 1024; all are integral.
func dataFactor(u types.DataUnit) int64 {
	switch u {
	case types.UnitBytes:
		return 1
	case types.UnitKilobytes:
		return 1_000
	case types.UnitMegabytes:
		return 1_000_000
	case types.UnitGigabytes:
		return 1_000_000_000
	case types.UnitTerabytes:
		return 1_000_000_000_000
	case types.UnitPetabytes:
		return 1_000_000_000_000_000
	case types.UnitKibibytes:
		return 1 << 10
	case types.UnitMebibytes:
		return 1 << 20
	case types.UnitGibibytes:
		return 1 << 30
	case types.UnitTebibytes:
		return 1 << 40
	case types.UnitPebibytes:
		return 1 << 50
	default:
		panic(fmt.Sprintf("evaluator: unhandled data unit %d", u))
	}
}

// numberProperty resolves a property access on an Int or Float receiver.
// Duration unit names take priority over data-size unit names; neither set
// overlaps in practice. Anything else is an unknown property.
func numberProperty(recv types.Value, name string, span types.Span) (types.Value, error) {
	if unit, ok := types.ParseDurationUnit(name); ok {
		return makeDuration(recv, unit), nil
	}
	if unit, ok := types.ParseDataUnit(name); ok {
		return makeDataSize(recv, unit), nil
	}
	return nil, types.NewError(types.ErrUnknownProperty,
		fmt.Sprintf("%s does not possess `%s` property", recv.Kind(), name), span).WithToken(name)
}

func makeDuration(recv types.Value, unit types.DurationUnit) *types.Duration {
	var n float64
	switch v := recv.(type) {
	case types.Int:
		n = float64(v)
	case types.Float:
		n = float64(v)
	}
	return &types.Duration{
		Secs:     math.Abs(n) * durationFactor(unit),
		Value:    recv,
		Unit:     unit,
		Negative: n < 0,
	}
}

func makeDataSize(recv types.Value, unit types.DataUnit) *types.DataSize {
	factor := dataFactor(unit)
	var count int64
	switch v := recv.(type) {
	case types.Int:
		count = int64(v) * factor
	case types.Float:
		// Fractional byte counts truncate toward zero.
		count = int64(float64(v) * float64(factor))
	}
	return &types.DataSize{
		Count: count,
		Value: recv,
		Unit:  unit,
	}
}

// durationProperty resolves the introspection properties of a duration.
func durationProperty(d *types.Duration, name string, span types.Span) (types.Value, error) {
	switch name {
	case "value":
		return d.Value, nil
	case "unit":
		return types.String(d.Unit.String()), nil
	case "isPositive":
		return types.Bool(!d.Negative), nil
	default:
		return nil, types.NewError(types.ErrUnknownProperty,
			fmt.Sprintf("Duration does not possess `%s` property", name), span).WithToken(name)
	}
}
