package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{input: "00:00", expected: 0},
		{input: "11:00", expected: 660},
		{input: "23:59", expected: 1439},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "9:00", wantErr: true},
		{input: "09-00", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSchedule)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, TimeOfDay(tt.expected), got)
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00:00", TimeOfDay(0).String())
	assert.Equal(t, "09:05", TimeOfDay(545).String())
	assert.Equal(t, "23:59", TimeOfDay(1439).String())
}

func TestNewStoreSchedule_Normalizes24Hours(t *testing.T) {
	t.Parallel()

	schedule, err := NewStoreSchedule("00:00", "00:00")
	require.NoError(t, err)
	assert.True(t, schedule.Is24Hours)

	schedule, err = NewStoreSchedule("11:00", "23:00")
	require.NoError(t, err)
	assert.False(t, schedule.Is24Hours)
	assert.Equal(t, TimeOfDay(660), schedule.OpensAt)
	assert.Equal(t, TimeOfDay(1380), schedule.ClosesAt)

	_, err = NewStoreSchedule("11:00", "25:00")
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "Escolha o tamanho", expected: "escolha-o-tamanho"},
		{input: "Borda recheada", expected: "borda-recheada"},
		{input: "  Molhos &  Extras  ", expected: "molhos-extras"},
		{input: "Adicionais", expected: "adicionais"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}
