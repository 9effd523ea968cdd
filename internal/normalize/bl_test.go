package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBillOfLading_StripsCarrierPrefix(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1234567890", BillOfLading("kmtc", "KMTC1234567890"))
	require.Equal(t, "235700319123", BillOfLading("evergreen", "EGLV235700319123"))
	require.Equal(t, "TAOB12345600", BillOfLading("oneline", "ONEYTAOB12345600"))
}

func TestBillOfLading_IgnoresOtherCarriers(t *testing.T) {
	t.Parallel()

	require.Equal(t, "KMTC1234567890", BillOfLading("maersk", "KMTC1234567890"))
	require.Equal(t, "257012345", BillOfLading("msc", "257012345"))
}

func TestBillOfLading_TrimsAndMatchesCaseInsensitively(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1234567890", BillOfLading("KMTC", " kmtc1234567890 "))
	require.Equal(t, "1234567890", BillOfLading("kmtc", "1234567890"))
}
