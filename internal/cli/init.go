// internal/cli/init.go

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/divijg19/jnienv/internal/config"
)

// Command-line flags for the init command
var (
	initForce bool
	initName  string
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new jnienv.toml file",
	Long: `Create a jnienv.toml manifest with commented [jdk] settings and an empty
[vars] table. The header subdirectory table for system-wide JDKs is written
out so it can be edited per project.`,
	Example: `
  jnienv init
  jnienv init -C ./native --name bridge
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetDirectory := firstNonEmpty(rootDir, ".")
		if err := os.MkdirAll(targetDirectory, 0o755); err != nil {
			return fmt.Errorf("create target dir: %w", err)
		}
		configPath := filepath.Join(targetDirectory, config.FileName)

		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}

		content := fmt.Sprintf(config.DefaultConfigTemplate, projectNameFor(targetDirectory))
		if _, err := config.Parse([]byte(content)); err != nil {
			return fmt.Errorf("render %s: %w", config.FileName, err)
		}
		if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", configPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", getRelativePath(configPath))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing jnienv.toml")
	initCmd.Flags().StringVar(&initName, "name", "", "Project name (default: directory)")

	rootCmd.AddCommand(initCmd)
}

func projectNameFor(targetDirectory string) string {
	if initName != "" {
		return initName
	}
	abs, err := filepath.Abs(targetDirectory)
	if err != nil {
		return config.GetDefaultProjectName()
	}
	base := filepath.Base(abs)
	if base == "." || base == string(os.PathSeparator) || base == "" {
		return config.GetDefaultProjectName()
	}
	return strings.ToLower(base)
}

func getRelativePath(absolutePath string) string {
	cwd, _ := os.Getwd()
	if relativePath, err := filepath.Rel(cwd, absolutePath); err == nil {
		return relativePath
	}
	return absolutePath
}
