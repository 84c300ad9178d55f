package speech

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{in: "[xyzzy]", want: "xyzzy"},
		{in: "Salam, [stranger]!", want: "Salam, stranger!"},
		{in: "Dr. Aliyev & Mr. Smith", want: "Doctor Aliyev and Mister Smith"},
		{in: "Mrs. Jones lives on Main St.", want: "Missus Jones lives on Main Street"},
		{in: "apples vs. oranges etc.", want: "apples versus oranges et cetera"},
		{in: "Gate No. 4", want: "Gate Number 4"},
		{in: "  Salam  ", want: "Salam"},
		{in: "[]", want: ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, CleanText(tt.in), tt.in)
	}
}

func TestPrepareUtterance(t *testing.T) {
	t.Parallel()

	voice := &Voice{ID: "yelda", Locale: "tr-TR"}

	u, ok := PrepareUtterance("[Çıxış] & Giriş", voice, 1.7, -0.2)
	require.True(t, ok)
	require.Equal(t, "Çıxış and Giriş", u.Text)
	require.Equal(t, voice, u.Voice)
	require.Equal(t, 1.0, u.Rate)
	require.Equal(t, 0.0, u.Volume)

	_, ok = PrepareUtterance(" [ ] ", nil, 0.5, 0.5)
	require.False(t, ok)
}

func TestClamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, Clamp(-1))
	require.Equal(t, 0.25, Clamp(0.25))
	require.Equal(t, 1.0, Clamp(3))
}
