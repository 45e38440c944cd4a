package narrations_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/bank-tally/cmd/narrations"
	"fjacquet/bank-tally/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func init() {
	root.Init()
	root.Cmd.AddCommand(narrations.Cmd)
}

const statement = "DATE,NARRATION,DEBIT,CREDIT\n" +
	"2024-03-01,XYZ STORE PURCHASE,500,0\n" +
	"2024-03-02,XYZ STORE PURCHASE,500,0\n" +
	"2024-03-03,RENT,20000,0\n" +
	"2024-04-03,Rent,20000,0\n" +
	"2024-04-04,rent ,20000,0\n" +
	"2024-04-05,ONE OFF,10,0\n"

func setup(t *testing.T) (dir, input string) {
	t.Helper()
	require.NoError(t, narrations.Cmd.Flags().Set("write", ""))
	require.NoError(t, narrations.Cmd.Flags().Set("interactive", "false"))
	dir = t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	input = filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(input, []byte(statement), 0600))
	return dir, input
}

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetIn(strings.NewReader(stdin))
	root.Cmd.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, root.Cmd.Execute())
	return out.String()
}

func TestNarrationsCommand_Metadata(t *testing.T) {
	assert.Equal(t, "narrations", narrations.Cmd.Use)
	assert.NotNil(t, narrations.Cmd.Flags().Lookup("write"))
	assert.NotNil(t, narrations.Cmd.Flags().Lookup("interactive"))
}

func TestNarrationsCommand_ListAndInteractive(t *testing.T) {
	dir, input := setup(t)

	out := run(t, "", "narrations", "-i", input)
	assert.Contains(t, out, "COUNT")
	assert.Less(t, strings.Index(out, "RENT"), strings.Index(out, "XYZ STORE PURCHASE"))
	assert.NotContains(t, out, "ONE OFF")

	target := filepath.Join(dir, "answers.yaml")
	out = run(t, "OFFICE RENT\n\n", "narrations", "-i", input, "--interactive", "--write", target)
	assert.Contains(t, out, "1 of 2 narrations assigned.")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var doc struct {
		Overrides map[string]string `yaml:"overrides"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, map[string]string{"RENT": "OFFICE RENT", "XYZ STORE PURCHASE": ""}, doc.Overrides)
}

func TestNarrationsCommand_KeepsEarlierAnswers(t *testing.T) {
	dir, input := setup(t)
	existing := filepath.Join(dir, ".bank-tally", "overrides.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0750))
	require.NoError(t, os.WriteFile(existing, []byte("overrides:\n  ZOMATO ORDER: STAFF WELFARE\n"), 0600))

	run(t, "OFFICE RENT\nXYZ STORE LTD\n", "narrations", "-i", input, "--interactive")

	assert.NoFileExists(t, filepath.Join(dir, "overrides.yaml"))
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	var doc struct {
		Overrides map[string]string `yaml:"overrides"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, map[string]string{
		"RENT":               "OFFICE RENT",
		"XYZ STORE PURCHASE": "XYZ STORE LTD",
		"ZOMATO ORDER":       "STAFF WELFARE",
	}, doc.Overrides)
}
