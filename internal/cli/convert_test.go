package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/contentmigrate/internal/richtext"
)

func TestConvertCommand_Run(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.html")
	require.NoError(t, os.WriteFile(path, []byte("<h2>Specs</h2><p>500 hp <strong>flat-six</strong></p>"), 0o644))

	cmd := NewConvertCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-file", path}))
	var out bytes.Buffer
	cmd.Out = &out

	require.NoError(t, cmd.Run())

	var blocks []richtext.Block
	require.NoError(t, json.Unmarshal(out.Bytes(), &blocks))
	require.Len(t, blocks, 2)
	assert.Equal(t, richtext.StyleH2, blocks[0].Style)
	assert.Equal(t, "Specs", blocks[0].PlainText())
	assert.Equal(t, "500 hp flat-six", blocks[1].PlainText())
}

func TestConvertCommand_Run_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.html")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cmd := NewConvertCommand()
	cmd.InputPath = path
	var out bytes.Buffer
	cmd.Out = &out

	require.NoError(t, cmd.Run())
	assert.JSONEq(t, "[]", out.String())
}

func TestConvertCommand_ParseFlags_MissingFile(t *testing.T) {
	cmd := NewConvertCommand()
	assert.Error(t, cmd.ParseFlags(nil))
}
