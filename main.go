package main

import (
	"fmt"
	"os"

	auditcmd "clearline/reim-audit/cmd/audit"
	buildcmd "clearline/reim-audit/cmd/build"
	"clearline/reim-audit/cmd/root"
	rulescmd "clearline/reim-audit/cmd/rules"
)

func init() {
	root.Init()
	root.Cmd.AddCommand(buildcmd.Cmd)
	root.Cmd.AddCommand(auditcmd.Cmd)
	root.Cmd.AddCommand(rulescmd.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
