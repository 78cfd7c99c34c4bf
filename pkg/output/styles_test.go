// pkg/output/styles_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test the embedded style registry

package output

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStyles(t *testing.T) {
	for _, name := range []string{"Success", "Warning", "Error", "Path", "Unit", "Muted", "Heading"} {
		_, ok := defaultStyles.Styles[name]
		assert.True(t, ok, "style %s missing", name)
	}
}

func TestParseStyles_UnknownColor(t *testing.T) {
	_, err := parseStyles([]byte("styles:\n  Bad:\n    foreground: nope\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown color nope")
}

func TestParseStyles_Invalid(t *testing.T) {
	_, err := parseStyles([]byte("colors: [\n"))
	assert.Error(t, err)
}

func TestBuildStyle(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})

	success := buildStyle(r, defaultStyles, "Success")
	assert.True(t, success.GetBold())
	assert.Equal(t, lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}, success.GetForeground())

	unknown := buildStyle(r, defaultStyles, "Nope")
	assert.False(t, unknown.GetBold())
}

func TestNewStyles_PlainOutsideTerminal(t *testing.T) {
	st := newStyles(&bytes.Buffer{}, FormatText)
	assert.Equal(t, "hello", st.success.Render("hello"))
	assert.Equal(t, "/a/b", st.path.Render("/a/b"))
}
