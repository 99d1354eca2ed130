package recording

import (
	"github.com/spf13/cobra"
)

// RecordingCmd is the parent command for recording operations.
var RecordingCmd = &cobra.Command{
	Use:     "recording",
	Aliases: []string{"rec"},
	Short:   "Manage field recordings",
	Long:    `Save, list, upload, and review field recordings and their analyses.`,
}
