// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/pkgsync/cmd/pkgsync/cmd"
)

func main() {
	cmd.Execute()
}
