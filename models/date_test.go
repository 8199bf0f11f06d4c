package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", d.String())

	_, err = ParseDate("09-03-2024")
	assert.Error(t, err)

	_, err = ParseDate("2024-3-9")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-09"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d.Time))
}

func TestDateUnmarshalRejectsBadFormat(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"today"`), &d))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-03-09"))
	assert.Equal(t, "2024-03-09", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-10")))
	assert.Equal(t, "2024-03-10", d.String())

	require.NoError(t, d.Scan(time.Date(2024, 3, 11, 13, 37, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-11", d.String())

	require.NoError(t, d.Scan("2024-03-12T00:00:00Z"))
	assert.Equal(t, "2024-03-12", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDateValueDropsTimeComponent(t *testing.T) {
	d := NewDate(time.Date(2024, 3, 9, 23, 59, 59, 0, time.UTC))
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", v)
}
