package coord

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(t *testing.T, opts []Option, values ...any) *Vector {
	t.Helper()
	v, err := New(values, opts...)
	require.NoError(t, err)
	return v
}

func requireNormalized(t *testing.T, v *Vector) {
	t.Helper()
	for i := 0; i < v.Len(); i++ {
		limbs, err := v.Limbs(i)
		require.NoError(t, err)
		require.NoError(t, Validate(limbs, v.Radix()), "axis %d: %v", i, limbStrings(limbs))
	}
}

func TestNew(t *testing.T) {
	v := vec(t, nil, "15", "-31564.99933425584842", "1699446367870005.2")

	assert.Equal(t, 3, v.Len())
	assert.Equal(t, DefaultRadix, v.Radix())
	assert.Equal(t, "(15.0, -31564.99933425584842, 1699446367870005.2)", v.String())
	assert.Equal(t, "Vector(15.0, -31564.99933425584842, 1699446367870005.2)", v.GoString())

	limbs, err := v.Limbs(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"38640.2", "17514", "2485", "6"}, limbStrings(limbs))
	requireNormalized(t, v)
}

func TestNew_Faults(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrArity)

	_, err = New([]any{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrArity)

	_, err = New([]any{1, "x"})
	assert.ErrorIs(t, err, ErrValue)

	_, err = New([]any{1, 2}, WithRadix(1))
	assert.ErrorIs(t, err, ErrRadix)
	assert.Equal(t, ErrorCodeRadix, GetErrorCode(err))

	assert.Panics(t, func() { MustNew([]any{"?"}) })
}

func TestNew_PerInstanceRadix(t *testing.T) {
	small := vec(t, []Option{WithRadix(10)}, 235.9)
	large := vec(t, nil, 235.9)

	small0, _ := small.Limbs(0)
	large0, _ := large.Limbs(0)
	assert.Equal(t, []string{"5.9", "3", "2"}, limbStrings(small0))
	assert.Equal(t, []string{"235.9"}, limbStrings(large0))
	assert.Equal(t, int64(10), small.Config().Radix)
	assert.Equal(t, DefaultRadix, large.Config().Radix)
}

func TestFromLimbs(t *testing.T) {
	raw := [][]decimal.Decimal{decimals("70000"), decimals("-0.5")}
	v, err := FromLimbs(raw)
	require.NoError(t, err)

	limbs, _ := v.Limbs(0)
	assert.Equal(t, []string{"4465", "1"}, limbStrings(limbs))
	assert.Equal(t, "(70000.0, -0.5)", v.String())

	raw[0][0] = decimal.NewFromInt(1)
	assert.Equal(t, "70000.0", mustGet(t, v, 0), "source limbs must not alias")

	_, err = FromLimbs([][]decimal.Decimal{decimals("1", "0.5")}, WithRadix(10))
	assert.ErrorIs(t, err, ErrValue)
}

func mustGet(t *testing.T, v *Vector, axis int) string {
	t.Helper()
	s, err := v.Get(axis)
	require.NoError(t, err)
	return s
}

func TestMove_ScenarioSingleCarry(t *testing.T) {
	v := vec(t, []Option{WithRadix(65535)}, 0, 0, 0)

	out, err := v.Move([]any{70000, 0, 0})
	require.NoError(t, err)
	assert.Same(t, v, out)

	limbs, _ := v.Limbs(0)
	assert.Equal(t, []string{"4465", "1"}, limbStrings(limbs))
	untouched, _ := v.Limbs(1)
	assert.Equal(t, []string{"0"}, limbStrings(untouched))
}

func TestMove_ScenarioMixedSigns(t *testing.T) {
	v := vec(t, nil, 135, 426.42, -1499941.5002)

	_, err := v.Move([]any{100, -5133.100532, 5})
	require.NoError(t, err)
	assert.Equal(t, "(235.0, -4706.680532, -1499936.5002)", v.String())
	requireNormalized(t, v)
}

func TestMove_LargeSingleAxis(t *testing.T) {
	v := vec(t, nil, "1699446367870005.2")
	assert.Equal(t, "1699446367870005.2", mustGet(t, v, 0))

	_, err := v.Move([]any{"0.8"})
	require.NoError(t, err)
	assert.Equal(t, "1699446367870006.0", mustGet(t, v, 0))

	big := vec(t, nil, "123456789012345678901234567890.5")
	_, err = big.Move([]any{1})
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567891.5", mustGet(t, big, 0))
}

func TestMove_SignAcrossZero(t *testing.T) {
	v := vec(t, []Option{WithRadix(10)}, "9.5")

	_, err := v.Move([]any{0.7})
	require.NoError(t, err)
	limbs, _ := v.Limbs(0)
	assert.Equal(t, []string{"0.2", "1"}, limbStrings(limbs))

	_, err = v.Move([]any{"-0.5"})
	require.NoError(t, err)
	assert.Equal(t, "9.7", mustGet(t, v, 0))

	_, err = v.Move([]any{"-10.2"})
	require.NoError(t, err)
	assert.Equal(t, "-0.5", mustGet(t, v, 0))
	limbs, _ = v.Limbs(0)
	assert.Equal(t, []string{"-0.5"}, limbStrings(limbs))

	_, err = v.Move([]any{"-100"})
	require.NoError(t, err)
	assert.Equal(t, "-100.5", mustGet(t, v, 0))
	requireNormalized(t, v)
}

func TestMove_SmallNegative(t *testing.T) {
	v := vec(t, nil, "-0.5")
	assert.Equal(t, "-0.5", mustGet(t, v, 0))

	w := vec(t, nil, "-.5")
	assert.Equal(t, "-0.5", mustGet(t, w, 0))

	z := vec(t, nil, 0.25)
	_, err := z.Move([]any{-0.75})
	require.NoError(t, err)
	assert.Equal(t, "-0.5", mustGet(t, z, 0))
}

func TestMove_Options(t *testing.T) {
	v := vec(t, nil, 0, 0, 0)

	_, err := v.Move([]any{3, 4, 0}, WithMaxSpeed(1))
	require.NoError(t, err)
	assert.Equal(t, "(0.6, 0.8, 0.0)", v.String())

	_, err = v.Move([]any{0.3, 0.4, 0}, WithMaxSpeed(1))
	require.NoError(t, err)
	assert.Equal(t, "(0.9, 1.2, 0.0)", v.String())

	_, err = v.Move([]any{1, 2, 3}, Reversed())
	require.NoError(t, err)
	assert.Equal(t, "(-0.1, -0.8, -3.0)", v.String())

	_, err = v.Move([]any{0, 0, 10}, WithMaxSpeed("2.5"), Reversed())
	require.NoError(t, err)
	assert.Equal(t, "(-0.1, -0.8, -5.5)", v.String())

	_, err = v.Move([]any{1, 1, 1}, WithMaxSpeed(-1))
	assert.ErrorIs(t, err, ErrValue)
}

func TestMove_SpeedClamp(t *testing.T) {
	for _, delta := range [][]any{{3, 4, 12}, {"0.001", "-7", "2"}, {-100, 0, 0.5}} {
		v := vec(t, nil, 0, 0, 0)
		_, err := v.Move(delta, WithMaxSpeed(2))
		require.NoError(t, err)

		values := make([]decimal.Decimal, v.Len())
		for i := range values {
			values[i], err = v.Value(i)
			require.NoError(t, err)
		}
		applied, err := Magnitude(values)
		require.NoError(t, err)
		assert.True(t, applied.Sub(decimal.NewFromInt(2)).Abs().LessThan(decimal.New(1, -12)), "applied %s", applied)
	}
}

func TestMove_FaultsLeaveVectorUnchanged(t *testing.T) {
	v := vec(t, nil, 1, 2, 3)

	_, err := v.Move([]any{1, 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArity)
	assert.Contains(t, err.Error(), "3 values")

	_, err = v.Move([]any{10, "bad", 10})
	assert.ErrorIs(t, err, ErrValue)

	assert.Equal(t, "(1.0, 2.0, 3.0)", v.String())
}

func TestMove_Additivity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randomDelta := func() string {
		whole := rng.Int63n(200000) - 100000
		frac := rng.Int63n(1000)
		return strconv.FormatInt(whole, 10) + "." + strconv.FormatInt(frac, 10)
	}

	for _, radix := range []int64{7, 10, 256, DefaultRadix} {
		for i := 0; i < 50; i++ {
			d1 := []any{randomDelta(), randomDelta()}
			d2 := []any{randomDelta(), randomDelta()}

			sequential := vec(t, []Option{WithRadix(radix)}, randomDelta(), randomDelta())
			combined := sequential.Clone()

			_, err := sequential.Move(d1)
			require.NoError(t, err)
			_, err = sequential.Move(d2)
			require.NoError(t, err)

			sum := make([]any, 2)
			for j := range sum {
				a := decimal.RequireFromString(d1[j].(string))
				b := decimal.RequireFromString(d2[j].(string))
				sum[j] = a.Add(b)
			}
			_, err = combined.Move(sum)
			require.NoError(t, err)

			for axis := 0; axis < 2; axis++ {
				got, _ := sequential.Limbs(axis)
				want, _ := combined.Limbs(axis)
				assert.Equal(t, limbStrings(want), limbStrings(got), "radix %d axis %d", radix, axis)
			}
			requireNormalized(t, sequential)
		}
	}
}

func TestMove_RandomWalkMatchesExactSum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	v := vec(t, []Option{WithRadix(16)}, "-3.5", "1000000000000000000000.125")
	want := []decimal.Decimal{decimal.RequireFromString("-3.5"), decimal.RequireFromString("1000000000000000000000.125")}

	for i := 0; i < 500; i++ {
		delta := []any{
			decimal.New(rng.Int63n(20001)-10000, -2),
			decimal.New(rng.Int63n(2000001)-1000000, -3),
		}
		_, err := v.Move(delta)
		require.NoError(t, err)
		for axis := range want {
			want[axis] = want[axis].Add(delta[axis].(decimal.Decimal))
		}
		requireNormalized(t, v)
	}

	for axis := range want {
		got, err := v.Value(axis)
		require.NoError(t, err)
		assert.True(t, want[axis].Equal(got), "axis %d: want %s got %s", axis, want[axis], got)
	}
}

func TestAddSub(t *testing.T) {
	m := vec(t, nil, 0, 0, 0)

	sum, err := m.Add([]any{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, "(5.0, 5.0, 5.0)", sum.String())
	assert.Equal(t, "(0.0, 0.0, 0.0)", m.String())

	sum, err = m.Add([]any{-1.75, 50, "1.19504"})
	require.NoError(t, err)
	assert.Equal(t, "(-1.75, 50.0, 1.19504)", sum.String())

	diff, err := m.Sub([]any{-1.75, 50, "1.19504"})
	require.NoError(t, err)
	assert.Equal(t, "(1.75, -50.0, -1.19504)", diff.String())
	assert.Equal(t, "(0.0, 0.0, 0.0)", m.String())

	typed, err := m.Sub([]float64{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, "(-5.0, -5.0, -5.0)", typed.String())

	_, err = m.Add([]any{1, 2})
	assert.ErrorIs(t, err, ErrArity)
	_, err = m.Sub(7)
	assert.ErrorIs(t, err, ErrArity)
}

func TestAdd_VectorOperands(t *testing.T) {
	a := vec(t, []Option{WithRadix(10)}, "1.5", 2)
	b := vec(t, nil, 100, "-3.25")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "(101.5, -1.25)", sum.String())
	assert.Equal(t, int64(10), sum.Radix())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "(-98.5, 5.25)", diff.String())

	_, err = a.Add(vec(t, nil, 1, 2, 3))
	assert.ErrorIs(t, err, ErrArity)
}

func TestSubFrom(t *testing.T) {
	m := vec(t, nil, 0, 0, 0)
	out, err := m.SubFrom([]any{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, "(5.0, 5.0, 5.0)", out.String())

	v := vec(t, nil, 1, "2.5", -3)
	out, err = v.SubFrom([]int{10, 10, 10})
	require.NoError(t, err)
	assert.Equal(t, "(9.0, 7.5, 13.0)", out.String())
	assert.Equal(t, "(1.0, 2.5, -3.0)", v.String())
}

func TestScale(t *testing.T) {
	m := vec(t, nil, 10, -10, 0)

	out, err := m.Scale([]any{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, "(50.0, -50.0, 0.0)", out.String())
	assert.Equal(t, "(10.0, -10.0, 0.0)", m.String())

	out, err = m.Scale([]any{-1.75, 50, "1.19504"})
	require.NoError(t, err)
	assert.Equal(t, "(-17.5, -500.0, 0.0)", out.String())

	out, err = out.Scale(1000.123)
	require.NoError(t, err)
	assert.Equal(t, "(-17502.1525, -500061.5, 0.0)", out.String())
	requireNormalized(t, out)

	_, err = m.Scale([]any{1, 2})
	assert.ErrorIs(t, err, ErrArity)
	_, err = m.Scale("two")
	assert.ErrorIs(t, err, ErrValue)
}

func TestScale_SpillsFractionDown(t *testing.T) {
	v := vec(t, []Option{WithRadix(10)}, 25, "123456.789")

	out, err := v.Scale("0.25")
	require.NoError(t, err)
	assert.Equal(t, "(6.25, 30864.19725)", out.String())

	limbs, _ := out.Limbs(0)
	assert.Equal(t, []string{"6.25"}, limbStrings(limbs))
	requireNormalized(t, out)

	out, err = v.Scale(-3)
	require.NoError(t, err)
	assert.Equal(t, "(-75.0, -370370.367)", out.String())
	requireNormalized(t, out)

	zero, err := v.Scale(0)
	require.NoError(t, err)
	assert.Equal(t, "(0.0, 0.0)", zero.String())
}

func TestClampMagnitude(t *testing.T) {
	v := vec(t, nil, 30, -40)

	out, err := v.ClampMagnitude(5)
	require.NoError(t, err)
	assert.Equal(t, "(3.0, -4.0)", out.String())
	assert.Equal(t, "(30.0, -40.0)", v.String())

	same, err := v.ClampMagnitude(100)
	require.NoError(t, err)
	assert.True(t, same.Equal(v))
	assert.NotSame(t, v, same)

	_, err = v.ClampMagnitude(-1)
	assert.ErrorIs(t, err, ErrValue)
}

func TestMagnitude(t *testing.T) {
	norm, err := Magnitude(decimals("3", "-4", "12"))
	require.NoError(t, err)
	assert.Equal(t, "13", norm.String())

	norm, err = Magnitude(decimals("0", "0"))
	require.NoError(t, err)
	assert.True(t, norm.IsZero())

	_, err = sqrtDecimal("coord.Magnitude", decimal.NewFromInt(-4))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariant)
	assert.Equal(t, ErrorCodeInvariant, GetErrorCode(err))
}

func TestGetSet(t *testing.T) {
	v := vec(t, nil, 1, 2, 3)

	require.NoError(t, v.Set(1, "-4294836225.5"))
	assert.Equal(t, "-4294836225.5", mustGet(t, v, 1))
	limbs, _ := v.Limbs(1)
	assert.Equal(t, []string{"-0.5", "0", "-1"}, limbStrings(limbs))

	_, err := v.Get(3)
	assert.ErrorIs(t, err, ErrIndex)
	_, err = v.Get(-1)
	assert.ErrorIs(t, err, ErrIndex)
	assert.Equal(t, ErrorCodeIndex, GetErrorCode(err))

	assert.ErrorIs(t, v.Set(3, 1), ErrIndex)
	assert.ErrorIs(t, v.Set(0, "nope"), ErrValue)
	assert.Equal(t, "(1.0, -4294836225.5, 3.0)", v.String())

	_, err = v.Limbs(5)
	assert.ErrorIs(t, err, ErrIndex)
	_, err = v.Value(5)
	assert.ErrorIs(t, err, ErrIndex)
}

func TestCloneIsIndependent(t *testing.T) {
	v := vec(t, nil, "65534.5", 0)
	c := v.Clone()
	cp := Copy(v)

	_, err := c.Move([]any{1, 1})
	require.NoError(t, err)
	require.NoError(t, cp.Set(0, 9))

	assert.Equal(t, "(65534.5, 0.0)", v.String())
	assert.Equal(t, "(65535.5, 1.0)", c.String())
	assert.Equal(t, "(9.0, 0.0)", cp.String())
	assert.Nil(t, Copy(nil))
}

func TestEqual(t *testing.T) {
	a := vec(t, []Option{WithRadix(10)}, "123.5", -7)
	b := vec(t, nil, "123.50", -7)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(vec(t, nil, "123.5", 7)))
	assert.False(t, a.Equal(vec(t, nil, 1)))
	assert.False(t, a.Equal(nil))
}

func BenchmarkMove(b *testing.B) {
	v := MustNew([]any{"1699446367870005.2", "-31564.9993", 0})
	delta := []any{0.016, -0.25, 0}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := v.Move(delta); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFormat(b *testing.B) {
	v := MustNew([]any{"1699446367870005.2", "-31564.9993", "123456789012345678901234567890.5"})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.String()
	}
}
