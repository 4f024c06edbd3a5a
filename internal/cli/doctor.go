// internal/cli/doctor.go

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	core "github.com/divijg19/jnienv/internal/jnienv"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the JDK installation used for JNI builds",
	Long:  "Diagnose javac, JAVA_HOME, the header and library directories, jni.h and jnienv.lock.",
	Args:  cobra.NoArgs,
	Example: `
	jnienv doctor
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := core.Doctor(rootDir, version, coreOptions(cmd))
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "version_present: %t\n", rep.VersionPresent)
		fmt.Fprintf(w, "config_path: %s\n", rep.ConfigPath)
		fmt.Fprintf(w, "javac_found: %t\n", rep.JavacFound)
		fmt.Fprintf(w, "javac: %s\n", rep.Javac)
		fmt.Fprintf(w, "javac_version: %s\n", rep.JavacVersion)
		fmt.Fprintf(w, "platform: %s\n", rep.Platform)
		fmt.Fprintf(w, "java_home: %s\n", rep.JavaHome)
		fmt.Fprintf(w, "java_home_source: %s\n", rep.HomeSource)
		fmt.Fprintf(w, "jni_header: %s\n", rep.JNIHeader)
		for _, d := range rep.MissingHeaders {
			fmt.Fprintf(w, "missing_header_dir: %s\n", d)
		}
		for _, d := range rep.MissingLibs {
			fmt.Fprintf(w, "missing_lib_dir: %s\n", d)
		}
		fmt.Fprintf(w, "lock_path: %s\n", rep.LockPath)
		fmt.Fprintf(w, "has_lock: %t\n", rep.HasLock)
		fmt.Fprintf(w, "lock_valid: %t\n", rep.LockValid)
		for _, e := range rep.Errors {
			if strings.TrimSpace(e) != "" {
				fmt.Fprintf(w, "%s %s\n", errText("error:"), e)
			}
		}
		if rep.Healthy() {
			fmt.Fprintln(w, okText("ok"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
