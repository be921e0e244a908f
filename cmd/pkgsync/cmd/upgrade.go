package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <package>...",
	Short: "Apply package descriptors to the stored objects",
	Long: `Apply the descriptor (io-package.json) of installed packages to the stored objects.

The package object gets its settings replaced by the declared ones. The declared settings
are merged into every instance bound to this host: operator customizations
(title, schedule, mode, loglevel, enabled, custom) are never overwritten.
Auxiliary objects declared by the package are upserted.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		u, _, err := newUploader()
		if err != nil {
			wrapFatalln("cannot prepare upgrade", err)
			return
		}
		err = forEachPackage("upgrade", args, func(name string) error {
			return u.UpgradeObjects(ctx, name, nil)
		})
		closeAndExit(u, "upgrade", err)
	},
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}
