// internal/cli/root.go

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	core "github.com/divijg19/jnienv/internal/jnienv"
	"github.com/divijg19/jnienv/internal/logging"
)

var (
	rootDir   string
	rootColor string

	logger hclog.Logger = hclog.NewNullLogger()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jnienv",
	Short: "Locate a JDK and configure a build environment for JNI code",
	Long: `jnienv finds the JDK on this host and computes the include paths, library
paths and platform flags needed to compile and link native JNI code.

Settings come from JAVA_HOME, the javac on PATH and an optional jnienv.toml.

Tip: run 'jnienv configure' to see what would be exported, or
'eval "$(jnienv env)"' to load it into your shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger("jnienv", logging.GetLogLevel(), cmd.ErrOrStderr())
		enabled, err := resolveColorEnabled(rootColor, os.Stdout)
		if err != nil {
			return err
		}
		applyColor(enabled)
		return nil
	},
}

// exitError ends the process with code after diagnostics were already shown.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "C", "", "Project directory (default cwd)")
	rootCmd.PersistentFlags().StringVar(&rootColor, "color", "auto", "Color output: auto|always|never")
}

// coreOptions binds a command to the session: diagnostics to its stdout,
// logs through the root logger.
func coreOptions(cmd *cobra.Command) core.Options {
	return core.Options{
		Out:    cmd.OutOrStdout(),
		Logger: logger,
	}
}

// firstNonEmpty returns a if a != "", otherwise b.
func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return strings.TrimSpace(b)
}
