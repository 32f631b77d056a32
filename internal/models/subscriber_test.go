package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberRecord_Decode(t *testing.T) {
	body := `[
		{"id": 17, "name": "Anna", "child_name": "Lisa", "email": "a@x.com", "date_subscribed": "2024-06-15T10:30:00Z", "is_active": true},
		{"id": "b-2", "name": "Ben", "child_name": "", "email": "b@x.com", "date_subscribed": "2023-01-02", "is_active": false}
	]`

	var records []SubscriberRecord
	require.NoError(t, json.Unmarshal([]byte(body), &records))
	require.Len(t, records, 2)

	assert.Equal(t, "17", records[0].ID.String())
	assert.Equal(t, "Lisa", records[0].GuardianName)
	assert.Equal(t, time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC), records[0].DateSubscribed.Time)
	assert.True(t, records[0].IsActive)

	assert.Equal(t, "b-2", records[1].ID.String())
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), records[1].DateSubscribed.Time)
	assert.False(t, records[1].IsActive)
}

func TestID_KeepsLiteralKind(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "number", in: `{"subscriber_id":42}`, want: `{"subscriber_id":42}`},
		{name: "string", in: `{"subscriber_id":"42"}`, want: `{"subscriber_id":"42"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				SubscriberID ID `json:"subscriber_id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, "42", v.SubscriberID.String())

			out, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestID_RejectsComposite(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &id))
	assert.True(t, id.IsZero())
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-06-15T10:30:00+03:00", want: time.Date(2024, 6, 15, 7, 30, 0, 0, time.UTC)},
		{in: "2024-06-15T10:30:00.123456", want: time.Date(2024, 6, 15, 10, 30, 0, 123456000, time.Local)},
		{in: "2024-06-15 10:30:00", want: time.Date(2024, 6, 15, 10, 30, 0, 0, time.Local)},
		{in: "2024-06-15", want: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{in: "15.06.2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %v", got.Time)
		})
	}
}

func TestParseTimestamp_NaiveTimeIsLocal(t *testing.T) {
	local := time.Local
	time.Local = time.FixedZone("MSK", 3*60*60)
	t.Cleanup(func() { time.Local = local })

	got, err := ParseTimestamp("2024-06-15 10:30:00")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 6, 15, 7, 30, 0, 0, time.UTC).Equal(got.Time), "got %v", got.Time)

	got, err = ParseTimestamp("2024-06-15T10:30:00Z")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC).Equal(got.Time), "got %v", got.Time)

	got, err = ParseTimestamp("2024-06-15")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC).Equal(got.Time), "got %v", got.Time)
}
