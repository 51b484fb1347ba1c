package corewasm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corewasm/corewasm/api"
)

func TestNewReflectGoFunc_PlainNumeric(t *testing.T) {
	adapted, err := newReflectGoFunc(func(x, y uint32) uint32 { return x + y })
	require.NoError(t, err)
	require.Equal(t, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, adapted.paramTypes)
	require.Equal(t, []api.ValueType{api.ValueTypeI32}, adapted.resultTypes)
	require.False(t, adapted.takesMod)
	require.False(t, adapted.hasError)

	stack := []uint64{3, 4}
	adapted.call(context.Background(), nil, stack)
	require.Equal(t, uint64(7), stack[0])
}

func TestNewReflectGoFunc_ContextAndModule(t *testing.T) {
	var sawMod api.Module
	adapted, err := newReflectGoFunc(func(ctx context.Context, m api.Module, offset uint32) uint64 {
		sawMod = m
		return uint64(offset) * 2
	})
	require.NoError(t, err)
	require.True(t, adapted.takesMod)
	require.Equal(t, 2, adapted.paramOffset)

	mod := &moduleWrapper{}
	stack := []uint64{21}
	adapted.call(context.Background(), mod, stack)
	require.Equal(t, uint64(42), stack[0])
	require.Same(t, mod, sawMod)
}

func TestNewReflectGoFunc_TrailingErrorTraps(t *testing.T) {
	boom := errors.New("boom")
	adapted, err := newReflectGoFunc(func(x uint32) (uint32, error) {
		return 0, boom
	})
	require.NoError(t, err)
	require.True(t, adapted.hasError)

	require.PanicsWithValue(t, boom, func() {
		adapted.call(context.Background(), nil, []uint64{1})
	})
}

func TestNewReflectGoFunc_TrailingErrorNilPassesThrough(t *testing.T) {
	adapted, err := newReflectGoFunc(func(x uint32) (uint32, error) {
		return x + 1, nil
	})
	require.NoError(t, err)

	stack := []uint64{41}
	require.NotPanics(t, func() {
		adapted.call(context.Background(), nil, stack)
	})
	require.Equal(t, uint64(42), stack[0])
}

func TestNewReflectGoFunc_RejectsUnsupportedType(t *testing.T) {
	_, err := newReflectGoFunc(func(x string) {})
	require.Error(t, err)

	_, err = newReflectGoFunc(42)
	require.Error(t, err)
}

func TestNewReflectGoFunc_FloatRoundTrip(t *testing.T) {
	adapted, err := newReflectGoFunc(func(x float64) float32 { return float32(x * 2) })
	require.NoError(t, err)

	stack := []uint64{api.EncodeF64(21)}
	adapted.call(context.Background(), nil, stack)
	require.Equal(t, float32(42), api.DecodeF32(stack[0]))
}
