package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReplayGroupsByLabel(t *testing.T) {
	data := `{"trip":"a","text":"Toronto"}
{"trip":"b","text":"hello"}

{"trip":"a","text":"yes"}
{"text":"no label"}
`
	labels, scripts, err := parseReplay(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "default"}, labels)
	assert.Equal(t, []string{"Toronto", "yes"}, scripts["a"])
	assert.Equal(t, []string{"hello"}, scripts["b"])
	assert.Equal(t, []string{"no label"}, scripts["default"])
}

func TestParseReplayBadLine(t *testing.T) {
	_, _, err := parseReplay("{\"trip\":\"a\",\"text\":\"x\"}\nnot json\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"museum", "park"}, splitList(" museum, ,park "))
	assert.Nil(t, splitList(""))
}
