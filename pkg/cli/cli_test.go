package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silverneko/ulc/pkg/cli"
)

func TestRunSourcePrintsNormalForm(t *testing.T) {
	var out bytes.Buffer
	err := cli.RunSource(`+ 1 2`, cli.Options{Out: &out})
	require.NoError(t, err)
	require.Equal(t, "3\n", out.String())
}

func TestRunSourceReportsParseErrors(t *testing.T) {
	var out bytes.Buffer
	err := cli.RunSource(`(x`, cli.Options{Out: &out})
	require.Error(t, err)
}

func TestRunFileReadsAndEvaluates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.ulc")
	require.NoError(t, os.WriteFile(path, []byte(`Y (\f \n if (<= n 1) 1 (* n (f (- n 1)))) 5`), 0o644))

	var out bytes.Buffer
	err := cli.RunFile(path, cli.Options{Out: &out})
	require.NoError(t, err)
	require.Equal(t, "120\n", out.String())
}

func TestRunSourceLoadsExtraPreludeFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "double.ulc")
	require.NoError(t, os.WriteFile(path, []byte(`\x + x x`), 0o644))

	var out bytes.Buffer
	err := cli.RunSource(`double 21`, cli.Options{Out: &out, Prelude: []string{path}})
	require.NoError(t, err)
	require.Equal(t, "42\n", out.String())
}

func TestRunFileMissingFileIsAnError(t *testing.T) {
	var out bytes.Buffer
	err := cli.RunFile(filepath.Join(t.TempDir(), "missing.ulc"), cli.Options{Out: &out})
	require.Error(t, err)
}
