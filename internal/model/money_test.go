package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	cases := map[string]Money{
		"0":       0,
		"12":      1200,
		"12.5":    1250,
		"12.05":   1205,
		".75":     75,
		"-3.10":   -310,
		" 450.00": 45000,
	}
	for in, want := range cases {
		got, err := ParseMoney(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "abc", "1.234", "1.-5", ".", "1..2", "--5",
		"184467440737095517.00", "92233720368547758.08", "-92233720368547758.08"} {
		_, err := ParseMoney(bad)
		assert.ErrorIs(t, err, ErrInvalidMoney, bad)
	}
}

func TestMoneyJSONAcceptsStringAndNumber(t *testing.T) {
	var v struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1500.50","b":99}`), &v))
	assert.Equal(t, Money(150050), v.A)
	assert.Equal(t, Money(9900), v.B)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1500.50","b":"99.00"}`, string(out))
}

func TestParseMoney_Limits(t *testing.T) {
	m, err := ParseMoney("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, Money(math.MaxInt64), m)

	var v struct {
		P Money `json:"p"`
	}
	err = json.Unmarshal([]byte(`{"p":"184467440737095517.84"}`), &v)
	assert.ErrorIs(t, err, ErrInvalidMoney)
	assert.Zero(t, v.P)
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan(int64(1234)))
	assert.Equal(t, "12.34", m.String())
	require.NoError(t, m.Scan([]byte("-5")))
	assert.Equal(t, "-0.05", m.String())
	assert.Error(t, m.Scan(1.5))
}

func TestStringListRoundTripsThroughColumn(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["wifi","desk"]`)))
	assert.Equal(t, StringList{"wifi", "desk"}, l)
	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)
}

func TestBookingStatusPredicates(t *testing.T) {
	assert.True(t, BookingPending.HoldsReservation())
	assert.True(t, BookingApproved.HoldsReservation())
	assert.False(t, BookingRejected.HoldsReservation())
	assert.False(t, BookingCancelled.HoldsReservation())
	assert.True(t, BookingCancelled.Terminal())
	assert.False(t, BookingStatus("LOST").Valid())
}
