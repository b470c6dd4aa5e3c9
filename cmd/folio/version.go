package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/folio/internal/output"
	"github.com/jackzampolin/folio/version"
)

type versionInfo struct {
	Release    string `json:"release" yaml:"release"`
	Go         string `json:"go" yaml:"go"`
	Commit     string `json:"commit" yaml:"commit"`
	CommitDate string `json:"commit_date" yaml:"commit_date"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if output.IsStructured() {
			return output.Print(versionInfo{
				Release:    version.GitRelease,
				Go:         version.GoInfo,
				Commit:     version.GitCommit,
				CommitDate: version.GitCommitDate,
			})
		}
		fmt.Printf("folio %s\n", version.GitRelease)
		fmt.Printf("  Go:     %s\n", version.GoInfo)
		fmt.Printf("  Commit: %s\n", version.GitCommit)
		fmt.Printf("  Date:   %s\n", version.GitCommitDate)
		return nil
	},
}
