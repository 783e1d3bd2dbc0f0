package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/patentid/internal/version"
)

func TestRunVersion(t *testing.T) {
	for _, args := range [][]string{{"version"}, {"-v"}, {"-version"}} {
		ui := cli.NewMockUi()
		code := Run("patentid", args, hclog.NewNullLogger(), ui)
		assert.Equal(t, 0, code)
		assert.Equal(t, "patentid v"+version.Version+"\n", ui.OutputWriter.String(), "args %v", args)
	}
}

func TestCommandsRegistered(t *testing.T) {
	cmds := Commands(hclog.NewNullLogger(), cli.NewMockUi())
	for _, name := range []string{"extract", "version"} {
		factory, ok := cmds[name]
		if assert.True(t, ok, name) {
			c, err := factory()
			assert.NoError(t, err)
			assert.NotEmpty(t, c.Synopsis())
		}
	}
}

func TestExtractLogLevelStaysOnCommandLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path,
		[]byte(`<r><document-id format="epo"><doc-number>E1</doc-number></document-id></r>`), 0o644))

	var buf bytes.Buffer
	log := newLogger(&buf)

	for _, level := range []string{"off", "trace"} {
		ui := cli.NewMockUi()
		code := Run("patentid", []string{"extract", "-log-level=" + level, path}, log, ui)
		require.Equal(t, 0, code, ui.ErrorWriter.String())
		assert.Equal(t, hclog.Info, log.GetLevel(), "after -log-level=%s", level)
	}

	log.Debug("root debug")
	assert.NotContains(t, buf.String(), "root debug")
}
