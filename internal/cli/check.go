package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	core "github.com/divijg19/jnienv/internal/jnienv"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the host JDK against jnienv.lock",
	Long:  "Re-resolve the JDK and compare it with jnienv.lock. Prints a JSON report and exits 1 on any difference.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := core.Check(rootDir, coreOptions(cmd))
		if err != nil {
			return err
		}
		if b, mErr := rep.MarshalJSONStable(); mErr == nil {
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
		}
		if !rep.OK {
			return errors.New("check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
