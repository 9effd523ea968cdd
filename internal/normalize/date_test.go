package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDate_DayFirstNumeric(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"25-12-2025": "25-12-2025",
		"5-1-2026":   "05-01-2026",
		"25/12/2025": "25-12-2025",
		"25.12.2025": "25-12-2025",
	}
	for in, want := range cases {
		require.Equal(t, want, Date(in), "input %q", in)
	}
}

func TestDate_YearFirst(t *testing.T) {
	t.Parallel()

	require.Equal(t, "25-12-2025", Date("2025-12-25"))
	require.Equal(t, "25-12-2025", Date("2025/12/25"))
	require.Equal(t, "25-12-2025", Date("2025.12.25"))
}

func TestDate_MonthNames(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"25 December 2025":  "25-12-2025",
		"December 25 2025":  "25-12-2025",
		"25 Dec 2025":       "25-12-2025",
		"Dec 25, 2025":      "25-12-2025",
		"25th December 2025": "25-12-2025",
		"2025 Dec 25":       "25-12-2025",
	}
	for in, want := range cases {
		require.Equal(t, want, Date(in), "input %q", in)
	}
}

func TestDate_ISOAndTimes(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"2025-12-25T08:30:00Z":     "25-12-2025",
		"2025-12-25T08:30":         "25-12-2025",
		"2025-12-25 08:30":         "25-12-2025",
		"25-12-2025 08:30":         "25-12-2025",
		"2025-12-25 Thu 08:30":     "25-12-2025",
		"2025-12-25 THU 08:30":     "25-12-2025",
	}
	for in, want := range cases {
		require.Equal(t, want, Date(in), "input %q", in)
	}
}

func TestDate_WhitespaceAndOrdinals(t *testing.T) {
	t.Parallel()

	require.Equal(t, "03-01-2026", Date("  3rd   January   2026 "))
	require.Equal(t, "21-12-2025", Date("21st Dec 2025"))
}

func TestDate_Unparseable(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "pending", "TBA", "25-13-2025"} {
		require.Empty(t, Date(in), "input %q", in)
	}
}

func TestDate_IdempotentOnOwnOutput(t *testing.T) {
	t.Parallel()

	out := Date("December 25 2025")
	require.Equal(t, out, Date(out))
}

func TestDate_DayFirstWinsOverMonthFirst(t *testing.T) {
	t.Parallel()

	// Ambiguous numeric dates resolve day-first.
	require.Equal(t, "05-04-2026", Date("05-04-2026"))
	require.Equal(t, "05-04-2026", Date("5/4/2026"))
}
