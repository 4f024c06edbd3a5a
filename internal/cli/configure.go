package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/divijg19/jnienv/internal/buildenv"
	core "github.com/divijg19/jnienv/internal/jnienv"
)

var (
	configureFormat string
	configureAll    bool
	configureLock   bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Discover the JDK and print the JNI build variables",
	Long: `Discover the JDK and print the build variables JNI configuration sets.

JAVA_HOME wins when set. Otherwise macOS uses the JavaVM framework and other
hosts derive the JDK from the javac found on PATH. Exits 1 when no compiler
or JDK can be found.`,
	Example: `
  jnienv configure
  jnienv configure --format json --all
  jnienv configure --lock
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigure(cmd, configureFormat, cmd.OutOrStdout())
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print shell exports for the JNI build variables",
	Long:  `Shortcut for 'jnienv configure --format shell'. Use with eval "$(jnienv env)".`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Diagnostics must not reach the text passed to eval.
		return runConfigure(cmd, string(buildenv.FormatShell), cmd.ErrOrStderr())
	},
}

func runConfigure(cmd *cobra.Command, format string, diag io.Writer) error {
	f, err := buildenv.ParseFormat(format)
	if err != nil {
		return err
	}
	opts := coreOptions(cmd)
	opts.Out = diag
	s, err := core.NewSession(rootDir, opts)
	if err != nil {
		return err
	}
	res, err := s.Configure()
	if err != nil {
		logger.Debug("configure failed", "error", err)
		return exitError{code: 1}
	}

	keys := res.Layout.Keys()
	if configureAll {
		keys = res.Env.Keys()
	}
	if err := buildenv.Export(cmd.OutOrStdout(), res.Env, keys, f); err != nil {
		return err
	}

	if configureLock {
		l, err := core.LockFromResult(res)
		if err != nil {
			return err
		}
		if err := core.WriteLock(res.Env.Fs, res.LockPath, l); err != nil {
			return fmt.Errorf("write %s: %w", res.LockPath, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", res.LockPath)
	}
	return nil
}

func init() {
	configureCmd.Flags().StringVarP(&configureFormat, "format", "f", string(buildenv.FormatEnv), "Output format: env|shell|json|yaml|toml")
	configureCmd.Flags().BoolVarP(&configureAll, "all", "a", false, "Export every variable, not only those JNI configuration set")
	configureCmd.Flags().BoolVar(&configureLock, "lock", false, "Also write jnienv.lock")
	envCmd.Flags().BoolVarP(&configureAll, "all", "a", false, "Export every variable, not only those JNI configuration set")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(envCmd)
}
