package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crmkit/crmctl/internal/ux"
	"github.com/crmkit/crmctl/internal/version"
)

var flagVersionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.GetInfo()

		if flagVersionShort {
			fmt.Println(info.Short())
			return nil
		}

		formatter, err := ux.NewFormatter(flagOutput, nil)
		if err != nil {
			return err
		}
		return formatter.Format(info)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&flagVersionShort, "short", false, "Print only the version number")
}
