package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	core "github.com/divijg19/jnienv/internal/jnienv"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Pin the discovered JDK in jnienv.lock",
	Long: `Configure JNI and record the JDK root, javac version and digest, and the
header and library directories in jnienv.lock next to jnienv.toml.
'jnienv check' compares later runs against it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, l, err := core.Lock(rootDir, coreOptions(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (javac %s, %s)\n", getRelativePath(path), l.JDK.JavacVersion, l.JDK.JavaHome)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lockCmd)
}
