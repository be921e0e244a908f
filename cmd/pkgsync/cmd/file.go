package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file <source> <target>",
	Short: "Upload a single file",
	Long: `Upload a single local file, or a resource fetched from an http(s) URL.

The first segment of the target is the namespace, the rest the attachment path.
A target ending with "/" gets the name of the source appended.

Example:
  pkgsync file ./app.js /vis/js/
  pkgsync file https://example.com/lib/x.css vis/css/x.css`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		u, _, err := newUploader()
		if err != nil {
			wrapFatalln("cannot prepare upload", err)
			return
		}
		location, err := u.UploadFile(context.Background(), args[0], args[1])
		report("upload of "+args[0]+" to", location, err)
		closeAndExit(u, "file upload failed", err)
	},
}

func init() {
	rootCmd.AddCommand(fileCmd)
}
