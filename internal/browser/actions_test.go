package browser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLocator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		expr  string
		xpath bool
	}{
		{`xpath=//*[@id="blNo"]`, `//*[@id="blNo"]`, true},
		{`//div[@class="x"]`, `//div[@class="x"]`, true},
		{`(//li)[last()]`, `(//li)[last()]`, true},
		{`#trackingNumber`, `#trackingNumber`, false},
		{`table.tbl_col tbody tr`, `table.tbl_col tbody tr`, false},
	}
	for _, tc := range cases {
		loc := ParseLocator(tc.in)
		require.Equal(t, tc.expr, loc.expr, "input %q", tc.in)
		require.Equal(t, tc.xpath, loc.xpath, "input %q", tc.in)
	}
}

func TestLocator_StringRoundTrips(t *testing.T) {
	t.Parallel()

	require.Equal(t, "xpath=//a", XPath("//a").String())
	require.Equal(t, "div.x", CSS("div.x").String())
	require.Equal(t, XPath("//a"), ParseLocator(XPath("//a").String()))
}

func TestLocator_JSResolvers(t *testing.T) {
	t.Parallel()

	require.Equal(t, `document.querySelector("#a")`, CSS("#a").js())
	require.Contains(t, XPath(`//*[@id="a"]`).js(), "document.evaluate")
}

func TestXPathLiteral(t *testing.T) {
	t.Parallel()

	require.Equal(t, `'plain'`, xpathLiteral("plain"))
	require.Equal(t, `"it's"`, xpathLiteral("it's"))
	require.Equal(t, `'say "hi"'`, xpathLiteral(`say "hi"`))
	require.Equal(t, `concat('it', "'", 's "x"')`, xpathLiteral(`it's "x"`))
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}.withDefaults()
	require.Equal(t, 1200, cfg.WindowWidth)
	require.Equal(t, 900, cfg.WindowHeight)
	require.Equal(t, 3, cfg.RetryAttempts)
	require.NotZero(t, cfg.NavTimeout)
	require.NotZero(t, cfg.ActionTimeout)
	require.NotZero(t, cfg.RetryDelay)
}
