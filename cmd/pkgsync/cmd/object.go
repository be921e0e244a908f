package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Commands to inspect stored objects",
}

var getObjectCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a stored object as YAML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		u, _, err := newUploader()
		if err != nil {
			wrapFatalln("cannot open store", err)
			return
		}
		obj, err := u.Store().GetObject(context.Background(), args[0])
		if err != nil {
			closeAndExit(u, "cannot get object "+args[0], err)
			return
		}
		out, err := yaml.Marshal(map[string]interface{}(obj))
		if err != nil {
			closeAndExit(u, "cannot render object", err)
			return
		}
		logStdOut("%s", out)
		closeAndExit(u, "", nil)
	},
}

func init() {
	objectCmd.AddCommand(getObjectCmd)
	rootCmd.AddCommand(objectCmd)
}
