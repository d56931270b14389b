package purge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    int
	}{
		{"start", 0, 4, 0},
		{"quarter", 1, 4, 25},
		{"floored", 1, 3, 33},
		{"done", 4, 4, 100},
		{"indeterminate", 7, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Progress{Current: tt.current, Total: tt.total}
			assert.Equal(t, tt.want, p.Percent())
		})
	}
}

func TestProgressIndeterminate(t *testing.T) {
	assert.True(t, Progress{Total: 0}.Indeterminate())
	assert.False(t, Progress{Total: 1}.Indeterminate())
}

func TestProgressPercentText(t *testing.T) {
	assert.Equal(t, "50%", Progress{Current: 2, Total: 4}.PercentText())
}

func TestTrackerLastValueWins(t *testing.T) {
	tr := NewTracker()

	_, ok := tr.Latest()
	assert.False(t, ok)

	tr.Report(Progress{Details: "one", Current: 1, Total: 4})
	tr.Report(Progress{Details: "two", Current: 2, Total: 4})
	tr.Report(Progress{Details: "three", Current: 3, Total: 4})

	latest, ok := tr.Latest()
	require.True(t, ok)
	assert.Equal(t, "three", latest.Details)

	// All three reports coalesced into a single pending wake-up.
	<-tr.Updates()
	select {
	case <-tr.Updates():
		t.Fatal("expected wake channel to be drained")
	default:
	}
}

func TestTrackerReportNeverBlocks(t *testing.T) {
	tr := NewTracker()

	// Nobody is listening; a burst of reports must still return.
	for i := 0; i < 1000; i++ {
		tr.Report(Progress{Current: i, Total: 1000})
	}

	latest, ok := tr.Latest()
	require.True(t, ok)
	assert.Equal(t, 999, latest.Current)
}
