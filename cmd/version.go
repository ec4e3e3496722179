package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/dimens/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		output   OutputFormat
		short    bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version information for dimens including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  dimens version              # Show short version
  dimens version --detailed   # Show detailed version info
  dimens version -o json      # Output as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			w := cmd.OutOrStdout()

			if output != OutputTable {
				return writeStructured(w, output, info)
			}
			switch {
			case short:
				fmt.Fprintln(w, info.Version)
			case detailed:
				fmt.Fprintln(w, info.String())
				if info.IsRelease() {
					fmt.Fprintln(w, "Build type: release")
				} else {
					fmt.Fprintln(w, "Build type: development")
				}
			default:
				fmt.Fprintf(w, "dimens %s\n", info.Short())
				if !info.BuildTime.IsZero() {
					fmt.Fprintf(w, "Built: %s\n", info.BuildTime.UTC().Format("2006-01-02 15:04:05 UTC"))
				}
				fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
				fmt.Fprintf(w, "Platform: %s\n", info.Platform)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Show short version only")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Show detailed version information")
	addOutputFlag(cmd, &output)
	return cmd
}
