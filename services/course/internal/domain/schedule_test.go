package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	m, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, m)

	for _, bad := range []string{"8:30", "24:00", "12:60", "12-30", "", "12:300"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrBadClock, bad)
	}
}

func TestNewSlot(t *testing.T) {
	t.Parallel()

	_, err := NewSlot("10:00", "10:00")
	assert.ErrorIs(t, err, ErrEmptySlot)
	_, err = NewSlot("12:00", "10:00")
	assert.ErrorIs(t, err, ErrEmptySlot)
	_, err = NewSlot("xx", "10:00")
	assert.ErrorIs(t, err, ErrBadClock)

	s, err := NewSlot("08:00", "10:00")
	require.NoError(t, err)
	assert.Equal(t, Slot{Start: 480, End: 600}, s)
}

func TestSlot_Overlaps(t *testing.T) {
	t.Parallel()

	mk := func(a, b string) Slot {
		s, err := NewSlot(a, b)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name string
		a, b Slot
		want bool
	}{
		{name: "identical", a: mk("08:00", "10:00"), b: mk("08:00", "10:00"), want: true},
		{name: "partial", a: mk("08:00", "10:00"), b: mk("09:30", "11:00"), want: true},
		{name: "contained", a: mk("08:00", "12:00"), b: mk("09:00", "10:00"), want: true},
		{name: "touching", a: mk("08:00", "10:00"), b: mk("10:00", "12:00"), want: false},
		{name: "disjoint", a: mk("08:00", "09:00"), b: mk("14:00", "15:00"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestSameKey(t *testing.T) {
	assert.True(t, SameKey("A101", " a101 "))
	assert.True(t, SameKey("Lundi", "LUNDI"))
	assert.False(t, SameKey("A101", "A102"))
}
