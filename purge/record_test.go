package purge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordStampsIdentityAndDate(t *testing.T) {
	rec := NewRecord(ResultInfo{Size: 10, Count: 2}, ResultInfo{Size: 3, Count: 1})

	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.Date.IsZero())
	assert.Equal(t, 2, rec.Artifacts.Count)
	assert.Equal(t, 1, rec.Caches.Count)
}

func TestRecordCombinedSize(t *testing.T) {
	tests := []struct {
		name      string
		artifacts int64
		caches    int64
		want      int64
		defined   bool
	}{
		{"both positive", 500, 200, 700, true},
		{"artifacts zero", 0, 200, 0, false},
		{"caches zero", 500, 0, 0, false},
		{"both zero", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{
				Artifacts: ResultInfo{Size: tt.artifacts},
				Caches:    ResultInfo{Size: tt.caches},
			}
			got, ok := rec.CombinedSize()
			require.Equal(t, tt.defined, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.size))
	}
}
