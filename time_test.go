package crowdsale

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mixbytes/crowdsale/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	saleStart := time.Date(2017, 10, 18, 18, 0, 0, 0, time.UTC)

	cases := map[string]struct {
		raw     string
		want    UnixTime
		wantErr *errors.Error
	}{
		"number":            {raw: "1508349600", want: AsUnixTime(saleStart)},
		"rfc3339":           {raw: `"2017-10-18T18:00:00Z"`, want: AsUnixTime(saleStart)},
		"rfc3339 with zone": {raw: `"2017-10-18T20:00:00+02:00"`, want: AsUnixTime(saleStart)},
		"negative number":   {raw: "-1", wantErr: errors.ErrInput},
		"before epoch":      {raw: `"1969-12-31T00:00:00Z"`, wantErr: errors.ErrInput},
		"garbage":           {raw: `"tomorrow"`, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUnixTimeArithmetic(t *testing.T) {
	var zero UnixTime
	assert.True(t, zero.IsZero())
	require.NoError(t, zero.Validate())
	assert.True(t, errors.ErrState.Is(UnixTime(-5).Validate()))

	start := AsUnixTime(time.Date(2017, 10, 18, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, start+86400, start.Add(24*time.Hour))
	// Sub second precision is dropped.
	assert.Equal(t, start+1, start.Add(1500*time.Millisecond))
	assert.Equal(t, "2017-10-18 18:00:00 +0000 UTC", start.String())
}

func TestUnixDurationJSON(t *testing.T) {
	d := AsUnixDuration(30 * 24 * time.Hour)
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"720h0m0s"`, string(raw))

	var back UnixDuration
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d, back)

	require.NoError(t, json.Unmarshal([]byte("3600"), &back))
	assert.Equal(t, time.Hour, back.Duration())

	err = json.Unmarshal([]byte(`"a week"`), &back)
	assert.True(t, errors.ErrInput.Is(err))
}
