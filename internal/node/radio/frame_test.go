package radio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

func TestFrameLayout(t *testing.T) {
	b, err := Frame(Header{Board: 9, Repeater: false, Timestamp: 1700000000}, []float64{150, 21.5, 22, 23})
	require.NoError(t, err)
	assert.Equal(t, "9,0,1700000000,[150,21.5,22,23]", string(b))

	b, err = Frame(Header{Board: 1, Repeater: true, Timestamp: 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, "1,1,5,[]", string(b))
}

func TestParse(t *testing.T) {
	h, payload, err := Parse([]byte("123,1,578,[1,2.5,3]"))
	require.NoError(t, err)
	assert.Equal(t, Header{Board: 123, Repeater: true, Timestamp: 578}, h)
	assert.Equal(t, []float64{1, 2.5, 3}, payload)
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"1,0,5",
		"x,0,5,[1]",
		"1,y,5,[1]",
		"1,0,z,[1]",
		"1,0,5,[1,",
	} {
		_, _, err := Parse([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestFramerStampsClock(t *testing.T) {
	now := time.Unix(1234, 0)
	f := Framer{Board: 7, Clock: clocktesting.NewFakePassiveClock(now)}

	b, err := f.Frame([]float64{0})
	require.NoError(t, err)

	h, _, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, Header{Board: 7, Timestamp: 1234}, h)
}
