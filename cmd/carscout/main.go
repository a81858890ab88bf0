package main

import (
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "carscout"}

	root.AddCommand(serveCMD(), migrateCMD(), seedCMD())
	_ = root.Execute()
}
