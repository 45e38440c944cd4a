// Package narrations lists repeated narrations and collects ledger overrides
// for them.
package narrations

import (
	"fmt"
	"text/tabwriter"

	"fjacquet/bank-tally/cmd/common"
	"fjacquet/bank-tally/cmd/root"
	"fjacquet/bank-tally/internal/overrides"

	"github.com/spf13/cobra"
)

var (
	writePath   string
	interactive bool
)

// Cmd represents the narrations command
var Cmd = &cobra.Command{
	Use:   "narrations",
	Short: "List repeated narrations and collect ledger overrides",
	Long: `List the narrations that occur more than once in a bank statement.
Only these narrations can be given an override ledger.

With --write, an override template is saved (existing answers in that file
are kept). With --interactive, a ledger is asked for each narration and the
answers are saved to the --write path, or the configured override file, or
overrides.yaml found in ., ./config or $HOME/.bank-tally.`,
	RunE: narrationsFunc,
}

func init() {
	Cmd.Flags().StringVarP(&writePath, "write", "w", "", "Write an override file for the repeated narrations")
	Cmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt for a ledger for each repeated narration")
}

func narrationsFunc(cmd *cobra.Command, args []string) error {
	c := root.AppContainer
	repeated, err := common.RepeatedNarrations(c, root.SharedFlags.Input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !interactive {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "COUNT\tNARRATION")
		for _, n := range repeated {
			_, _ = fmt.Fprintf(tw, "%d\t%s\n", n.Count, n.Sample)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if writePath == "" {
			return nil
		}
	}

	path := writePath
	if path == "" {
		path = c.GetConfig().Mapping.OverridesFile
	}
	store := c.GetOverrideStore()
	path = store.ResolvePath(path)
	known, err := store.Load(path)
	if err != nil {
		return err
	}

	if interactive {
		answers, err := overrides.Prompt(cmd.InOrStdin(), out, repeated)
		if err != nil {
			return err
		}
		for k, v := range answers {
			known[k] = v
		}
	}

	return store.Save(path, repeated, known)
}
