package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:   "restart <package>...",
	Short: "Restart the instances depending on packages",
	Long: `Restart the instances declared by packages in "restartAdapters".

Every enabled instance is disabled, then enabled again. Disabled instances are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		u, _, err := newUploader()
		if err != nil {
			wrapFatalln("cannot prepare restart", err)
			return
		}
		err = forEachPackage("restart dependents of", args, func(name string) error {
			return u.Restart(ctx, name)
		})
		closeAndExit(u, "restart", err)
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)
}
