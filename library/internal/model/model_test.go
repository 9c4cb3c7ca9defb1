package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "date only", input: `"2024-06-30"`, want: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339", input: `"2024-06-30T12:00:00+02:00"`, want: time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC)},
		{name: "null", input: `null`},
		{name: "empty", input: `""`},
		{name: "garbage", input: `"30/06/2024"`, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, tt.want.Equal(d.Time), "got %s", d.Time)
		})
	}
}

func TestLoanPatch_Empty(t *testing.T) {
	t.Parallel()
	require.True(t, LoanPatch{}.Empty())
	id := uuid.New()
	require.False(t, LoanPatch{Asset: &id}.Empty())
}

func TestNewLoanEvent(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	loan := Loan{ID: uuid.New(), Student: uuid.New(), Asset: uuid.New(), Period: at.Add(LoanPeriod)}

	event := NewLoanEvent(LoanCreated, loan, at)
	require.NotEqual(t, uuid.Nil, event.ID)
	require.Equal(t, loan.ID, event.LoanID)
	require.Equal(t, loan.Asset, event.Asset)
	require.Equal(t, LoanCreated, event.Type)
	require.Equal(t, at, event.Timestamp)
	require.Equal(t, at.AddDate(0, 0, 10), event.Period)
}
