package util_test

import (
	"testing"
	"time"

	"github.com/flightlog/ulog/util"
	"github.com/stretchr/testify/require"
)

func TestWhen(t *testing.T) {
	require.Equal(t, 1, util.When(true, 1, 2))
	require.Equal(t, 2, util.When(false, 1, 2))
}

func TestMap(t *testing.T) {
	doubled := util.Map(func(x int) int { return 2 * x }, []int{1, 2, 3})
	require.Equal(t, []int{2, 4, 6}, doubled)
}

func TestParseMicros(t *testing.T) {
	ts := util.ParseMicros(1500000)
	require.Equal(t, time.Unix(1, 500000000), ts)
}
