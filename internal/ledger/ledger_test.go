package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bank-tally/internal/fileutils"
	"fjacquet/bank-tally/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNames(t *testing.T) {
	tests := []struct {
		name  string
		table fileutils.Table
		want  []string
	}{
		{"nil table", nil, []string{}},
		{"header only", fileutils.Table{{"Ledger"}}, []string{}},
		{
			name: "first column only, empties dropped",
			table: fileutils.Table{
				{"Ledger", "Group"},
				{"SALARY", "Income"},
				{"", "Orphan"},
				{},
				{"RENT", "Expenses"},
				{"RENT"},
			},
			want: []string{"SALARY", "RENT", "RENT"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Names(tt.table))
		})
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	names, err := NewSource(logging.NewMockLogger(), ',').Load("")
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NotNil(t, names)
}

func TestLoad_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgers.csv")
	require.NoError(t, os.WriteFile(path, []byte("Ledger Name\n SALARY \n\nELECTRICITY CHARGES\n"), 0600))

	names, err := NewSource(logging.NewMockLogger(), ',').Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SALARY", "ELECTRICITY CHARGES"}, names)
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgers.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Name of Ledger"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"XYZ STORE LTD"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"OFFICE RENT"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	mock := logging.NewMockLogger()
	names, err := NewSource(mock, ',').Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"XYZ STORE LTD", "OFFICE RENT"}, names)
	assert.True(t, mock.HasEntry("INFO", "Ledger master loaded"))
}

func TestLoad_MissingFile(t *testing.T) {
	mock := logging.NewMockLogger()
	names, err := NewSource(mock, ',').Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.True(t, mock.HasEntry("WARN", "Ledger master not found, continuing without it"))
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgers.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0600))

	_, err := NewSource(logging.NewMockLogger(), ',').Load(path)
	assert.Error(t, err)
}
