package cmd

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/dimens/internal/config"
	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/strategy"
)

func newProfilesCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Inspect profile files",
		Long: `Validate and print profile files.

A profile file is a YAML document with a list of named profiles:

  profiles:
    - name: title
      element: text
      constraints: {min: 12, max: 40}
      overrides:
        - ui_mode: television
          value: 48`,
	}
	cmd.AddCommand(newProfilesValidateCommand(), newProfilesShowCommand())
	return cmd
}

func newProfilesValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a profile file and report every problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			set, err := config.LoadProfiles(args[0])
			if err == nil {
				fmt.Fprintf(w, "%s: %d profiles OK\n", args[0], set.Len())
				return nil
			}

			var coll *errors.ValidationErrorCollection
			if !stderrors.As(err, &coll) {
				return err
			}
			for _, e := range coll.Errors {
				fmt.Fprintf(w, "  %s\n", e.Error())
				for _, s := range e.Suggestions() {
					fmt.Fprintf(w, "    hint: %s\n", s)
				}
			}
			return errors.NewValidationError(errors.ErrCodeInvalidParams,
				fmt.Sprintf("%s: %d problems", args[0], len(coll.Errors)))
		},
	}
}

func newProfilesShowCommand() *cobra.Command {
	output := OutputYAML

	cmd := &cobra.Command{
		Use:   "show <file> [name...]",
		Short: "Print profiles in their normalized form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := config.LoadProfiles(args[0])
			if err != nil {
				return err
			}

			profiles := set.Profiles()
			if len(args) > 1 {
				profiles = make([]*strategy.Profile, 0, len(args)-1)
				for _, name := range args[1:] {
					p, err := set.Get(name)
					if err != nil {
						return err
					}
					profiles = append(profiles, p)
				}
			}

			w := cmd.OutOrStdout()
			switch output {
			case OutputJSON:
				file := config.ProfileFile{Profiles: make([]config.ProfileDoc, len(profiles))}
				for i, p := range profiles {
					file.Profiles[i] = config.Describe(p)
				}
				return writeStructured(w, OutputJSON, file)
			case OutputTable:
				rows := make([][]string, 0, len(profiles))
				for _, p := range profiles {
					rows = append(rows, []string{
						p.Name(),
						displayName(p.Strategy().String()),
						fmt.Sprintf("%d", len(p.Overrides())),
						fmt.Sprintf("%08x", p.Fingerprint()),
					})
				}
				return writeTable(w, []string{"NAME", "STRATEGY", "OVERRIDES", "FINGERPRINT"}, rows)
			default:
				data, err := config.MarshalProfiles(profiles)
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			}
		},
	}
	cmd.Flags().VarP(newEnumValue(&output, parseOutputFormat, "format"), "output", "o", "Output format (table|json|yaml)")
	return cmd
}
