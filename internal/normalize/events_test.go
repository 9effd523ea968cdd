package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMilestones_ClassifiesByKeyword(t *testing.T) {
	t.Parallel()

	emptyRelease, etd, eta := Milestones([]RawEvent{
		{Label: "Gate out Empty", Date: "01-12-2025"},
		{Label: "Vessel departure from Busan", Date: "05-12-2025"},
		{Label: "Estimated arrival at Rotterdam", Date: "28-12-2025"},
	})
	require.Equal(t, "01-12-2025", emptyRelease)
	require.Equal(t, "05-12-2025", etd)
	require.Equal(t, "28-12-2025", eta)
}

func TestMilestones_FirstWinsForHistoricalFacts(t *testing.T) {
	t.Parallel()

	emptyRelease, etd, _ := Milestones([]RawEvent{
		{Label: "Empty release", Date: "01-12-2025"},
		{Label: "Empty release", Date: "02-12-2025"},
		{Label: "ETD", Date: "05-12-2025"},
		{Label: "Departure", Date: "06-12-2025"},
	})
	require.Equal(t, "01-12-2025", emptyRelease)
	require.Equal(t, "05-12-2025", etd)
}

func TestMilestones_LastWinsForETA(t *testing.T) {
	t.Parallel()

	_, _, eta := Milestones([]RawEvent{
		{Label: "ETA", Date: "25-12-2025"},
		{Label: "Vessel arrival", Date: "28-12-2025"},
	})
	require.Equal(t, "28-12-2025", eta)
}

func TestMilestones_EmptyReleaseBeatsETDOrder(t *testing.T) {
	t.Parallel()

	// "empty gate" must classify as empty release even though "gate in" is an
	// ETD keyword.
	emptyRelease, etd, _ := Milestones([]RawEvent{
		{Label: "Empty gate in", Date: "01-12-2025"},
	})
	require.Equal(t, "01-12-2025", emptyRelease)
	require.Empty(t, etd)
}

func TestMilestones_AppendsTimeComponent(t *testing.T) {
	t.Parallel()

	emptyRelease, _, _ := Milestones([]RawEvent{
		{Label: "Empty pickup", Date: "01.12.2025", Time: "14:30"},
	})
	require.Equal(t, "01-12-2025", emptyRelease)
}

func TestMilestones_DiscardsUnparseableDates(t *testing.T) {
	t.Parallel()

	emptyRelease, etd, eta := Milestones([]RawEvent{
		{Label: "Empty release", Date: "pending"},
		{Label: "Loading onto truck", Date: "01-12-2025"},
		{Label: ""},
	})
	require.Empty(t, emptyRelease)
	require.Empty(t, etd)
	require.Empty(t, eta)
}
