package schema_test

import (
	"testing"

	"github.com/flightlog/ulog/ulog/schema"
	"github.com/stretchr/testify/require"
)

func TestDefineComputesSizesAndOffsets(t *testing.T) {
	cases := []struct {
		assertion  string
		definition string
		size       int
		offsets    []int
	}{
		{
			"scalars",
			"light:uint8 on;float32 brightness",
			5,
			[]int{0, 1},
		},
		{
			"all primitive widths",
			"widths:int8 a;int16 b;int32 c;int64 d;uint8 e;uint16 f;uint32 g;uint64 h;float32 i;float64 j;bool k;char l",
			44,
			[]int{0, 1, 3, 7, 15, 16, 18, 22, 30, 34, 42, 43},
		},
		{
			"primitive arrays",
			"attitude:uint64 timestamp;float32 q[4]",
			24,
			[]int{0, 8},
		},
		{
			"array length on the type",
			"attitude:uint64 timestamp;float32[4] q",
			24,
			[]int{0, 8},
		},
		{
			"c-style aliases",
			"gps:uint64_t timestamp;double lat;float eph",
			20,
			[]int{0, 8, 16},
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			registry := schema.NewRegistry()
			s, err := registry.Define(c.definition)
			require.NoError(t, err)
			require.Equal(t, c.size, s.Size())
			offsets := []int{}
			for _, f := range s.Flat() {
				offsets = append(offsets, f.Offset)
			}
			require.Equal(t, c.offsets, offsets)
		})
	}
}

func TestOffsetsAreMonotonicAndNonOverlapping(t *testing.T) {
	registry := schema.NewRegistry()
	s, err := registry.Define("mixed:uint8 a;uint64 b;int16 c[3];bool d")
	require.NoError(t, err)
	total := 0
	last := -1
	for _, f := range s.Flat() {
		require.Greater(t, f.Offset, last)
		require.Equal(t, total, f.Offset)
		total += f.Size()
		last = f.Offset
	}
	require.Equal(t, s.Size(), total)
}

func TestNestedSchemaReferences(t *testing.T) {
	registry := schema.NewRegistry()
	_, err := registry.Define("vec3:float32 x;float32 y;float32 z")
	require.NoError(t, err)
	s, err := registry.Define("pose:uint64 timestamp;vec3 position;vec3 velocity")
	require.NoError(t, err)
	require.Equal(t, 8+12+12, s.Size())

	names := []string{}
	for _, f := range s.Flat() {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{
		"timestamp",
		"position.x", "position.y", "position.z",
		"velocity.x", "velocity.y", "velocity.z",
	}, names)
	require.Equal(t, 8, s.Flat()[1].Offset)
	require.Equal(t, 20, s.Flat()[4].Offset)
}

func TestNestedSchemaArrays(t *testing.T) {
	registry := schema.NewRegistry()
	_, err := registry.Define("cell:float32 voltage;uint8 flags")
	require.NoError(t, err)
	s, err := registry.Define("battery:cell cells[2]")
	require.NoError(t, err)
	require.Equal(t, 10, s.Size())

	flat := s.Flat()
	require.Len(t, flat, 4)
	require.Equal(t, "cells[0].voltage", flat[0].Name)
	require.Equal(t, "cells[1].flags", flat[3].Name)
	require.Equal(t, 9, flat[3].Offset)
}

func TestForwardReferencesAreRejected(t *testing.T) {
	registry := schema.NewRegistry()
	_, err := registry.Define("pose:uint64 timestamp;vec3 position")
	require.ErrorIs(t, err, schema.MalformedDefinitionError{})
}

func TestDuplicateDefinitionIsRejected(t *testing.T) {
	registry := schema.NewRegistry()
	_, err := registry.Define("light:uint8 on")
	require.NoError(t, err)
	_, err = registry.Define("light:uint8 on;float32 brightness")
	require.ErrorIs(t, err, schema.MalformedDefinitionError{})
}

func TestMalformedDefinitions(t *testing.T) {
	cases := []struct {
		assertion  string
		definition string
	}{
		{"missing colon", "light uint8 on"},
		{"unknown type", "light:uint9 on"},
		{"zero length array", "light:uint8 on[0]"},
		{"length in both positions", "light:uint8[2] on[2]"},
		{"missing field name", "light:uint8"},
		{"garbage", ":::"},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			registry := schema.NewRegistry()
			_, err := registry.Define(c.definition)
			require.ErrorIs(t, err, schema.MalformedDefinitionError{})
		})
	}
}

func TestResolveUnknownSchema(t *testing.T) {
	registry := schema.NewRegistry()
	_, err := registry.Resolve("absent")
	require.ErrorIs(t, err, schema.UnknownSchemaError{})
}

func TestSchemasReturnsDefinitionOrder(t *testing.T) {
	registry := schema.NewRegistry()
	for _, def := range []string{"b:uint8 x", "a:uint8 x", "c:uint8 x"} {
		_, err := registry.Define(def)
		require.NoError(t, err)
	}
	names := []string{}
	for _, s := range registry.Schemas() {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{"b", "a", "c"}, names)
	require.Equal(t, 3, registry.Len())
}

func TestTrailingSemicolonAccepted(t *testing.T) {
	registry := schema.NewRegistry()
	s, err := registry.Define("light:uint8 on;float32 brightness;")
	require.NoError(t, err)
	require.Len(t, s.Fields, 2)
}

func TestTimestampIndex(t *testing.T) {
	registry := schema.NewRegistry()
	s, err := registry.Define("attitude:uint64 timestamp;float32 roll")
	require.NoError(t, err)
	require.Equal(t, 0, s.TimestampIndex())

	s, err = registry.Define("no_ts:float32 roll")
	require.NoError(t, err)
	require.Equal(t, -1, s.TimestampIndex())

	// Wrong type does not count.
	s, err = registry.Define("odd_ts:uint32 timestamp;float32 roll")
	require.NoError(t, err)
	require.Equal(t, -1, s.TimestampIndex())
}

func TestPaddingFields(t *testing.T) {
	registry := schema.NewRegistry()
	s, err := registry.Define("padded:uint64 timestamp;uint8 flags;uint8 _padding0[7]")
	require.NoError(t, err)
	require.Equal(t, 16, s.Size())
	require.Equal(t, 9, s.DataSize())
	require.True(t, s.Flat()[2].Padding)
}

func TestParseTypedKey(t *testing.T) {
	f, err := schema.ParseTypedKey("char[5] sys_name")
	require.NoError(t, err)
	require.Equal(t, "sys_name", f.Name)
	require.Equal(t, schema.CHAR, f.Type)
	require.Equal(t, 5, f.ArrayLen)

	f, err = schema.ParseTypedKey("uint32 ver_hw")
	require.NoError(t, err)
	require.Equal(t, schema.UINT32, f.Type)
	require.Equal(t, 0, f.ArrayLen)

	_, err = schema.ParseTypedKey("pose attitude")
	require.ErrorIs(t, err, schema.MalformedDefinitionError{})
}
