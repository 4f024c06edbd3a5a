package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	core "github.com/divijg19/jnienv/internal/jnienv"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show jnienv status (read-only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := core.Status(rootDir, coreOptions(cmd))
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if rep.HasConfig {
			fmt.Fprintf(w, "%s: %s\n", keyText("config"), rep.ConfigPath)
		} else {
			fmt.Fprintf(w, "%s: (none, using defaults)\n", keyText("config"))
		}
		if !rep.HasLock {
			fmt.Fprintf(w, "%s: %s (%s)\n", keyText("lock"), rep.LockPath, warnText("missing"))
			return nil
		}
		fmt.Fprintf(w, "%s: %s\n", keyText("lock"), rep.LockPath)
		fmt.Fprintf(w, "lockValid: %t\n", rep.LockValid)
		if rep.LockMatches {
			fmt.Fprintf(w, "lockMatches: %s\n", okText("true"))
		} else {
			fmt.Fprintf(w, "lockMatches: %s\n", errText("false"))
		}
		fmt.Fprintf(w, "missing: %d\n", rep.Missing)
		fmt.Fprintf(w, "mismatched: %d\n", rep.Mismatched)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
