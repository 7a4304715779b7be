// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vullab/rps-export/internal/flatten"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List supported schema versions and their column sets",
	Run: func(cmd *cobra.Command, args []string) {
		for _, sch := range flatten.Versions() {
			fmt.Printf("%s:\n  %s\n", sch.Version, strings.Join(sch.Header(), ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(schemasCmd)
}
