package cli

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	core "github.com/divijg19/jnienv/internal/jnienv"
)

var execCmd = &cobra.Command{
	Use:   "exec -- <command> [args...]",
	Short: "Run a command with the JNI build variables exported",
	Long: `Configure JNI and run a command with the resulting variables layered over
the current environment. CGO_CFLAGS and CGO_LDFLAGS carry the JNI include and
library paths so 'go build' of cgo packages works unchanged.

A single quoted argument is split with shell rules.`,
	Example: `
  jnienv exec -- go build ./...
  jnienv exec "make -C native"
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		argv, err := parseCommand(args)
		if err != nil {
			return err
		}
		err = core.Exec(rootDir, argv, coreOptions(cmd))
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return exitError{code: ee.ExitCode()}
		}
		return err
	},
}

func parseCommand(args []string) ([]string, error) {
	if len(args) == 1 && strings.ContainsAny(args[0], " \t") {
		argv, err := shlex.Split(args[0])
		if err != nil {
			return nil, err
		}
		if len(argv) == 0 {
			return nil, errors.New("empty command")
		}
		return argv, nil
	}
	return args, nil
}

func init() {
	rootCmd.AddCommand(execCmd)
}
