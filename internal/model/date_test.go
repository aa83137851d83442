package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.March, 15)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equal(d.Time))
}

func TestDateUnmarshalRejectsBadFormat(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"15/03/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240315`), &d))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-03-15"))
	assert.Equal(t, 2024, d.Year())

	var fromTime Date
	require.NoError(t, fromTime.Scan(time.Date(2023, time.July, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.July, fromTime.Month())
}
