package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testConfig = `
selectors: electronSelect: {
	Family:         "electron"
	InputContainer: "Electrons"
	pTMin:          25
	PassMin:        1
}
selectors: muonSelect: {
	Family:         "muon"
	InputContainer: "Muons"
	PassMin:        1
}
`

const testEvents = `
events:
  - number: 1
    weight: 2
    vertices:
      - type: 1
    collections:
      Electrons:
        - {pt: 30, eta: 0.5, author: 1}
      Muons:
        - {pt: 30, eta: 0.5}
  - number: 2
    vertices:
      - type: 1
    collections:
      Electrons:
        - {pt: 20, eta: 0.5, author: 1}
      Muons: []
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func findCommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	sub, _, err := NewRootCommand().Find([]string{name})
	require.NoError(t, err)
	return sub
}
