package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <package>...",
	Short: "Upload the content of packages",
	Long: `Upload the www tree (or the admin tree, with --admin) of installed packages
as attachments of their container object.

Content already uploaded is left untouched, unless --force is set.

With --full, packages are processed last to first: the admin tree is uploaded,
the package objects are upgraded, then the www tree is uploaded.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		u, _, err := newUploader()
		if err != nil {
			wrapFatalln("cannot prepare upload", err)
			return
		}

		if pkgsyncFlags.upload.full {
			err = u.UploadFull(ctx, args)
			report("full upload of", joinNames(args), err)
			closeAndExit(u, "full upload failed", err)
			return
		}

		err = forEachPackage("upload", args, func(name string) error {
			return u.UploadPackage(ctx, name, pkgsyncFlags.upload.admin, pkgsyncFlags.upload.force, pkgsyncFlags.upload.subtree)
		})
		closeAndExit(u, "upload", err)
	},
}

func init() {
	addAdminFlag(uploadCmd)
	addForceFlag(uploadCmd)
	addSubtreeFlag(uploadCmd)
	addFullFlag(uploadCmd)
	rootCmd.AddCommand(uploadCmd)
}
