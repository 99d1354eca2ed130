package cmd

import (
	"fieldvoice/cmd/client/cmd/auth"
	"fieldvoice/cmd/client/cmd/recording"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.ForgotPasswordCmd)
	auth.AuthCmd.AddCommand(auth.ResetPasswordCmd)

	rootCmd.AddCommand(recording.RecordingCmd)
	recording.RecordingCmd.AddCommand(recording.SaveCmd)
	recording.RecordingCmd.AddCommand(recording.ListCmd)
	recording.RecordingCmd.AddCommand(recording.ShowCmd)
	recording.RecordingCmd.AddCommand(recording.UploadCmd)
	recording.RecordingCmd.AddCommand(recording.RetryCmd)
	recording.RecordingCmd.AddCommand(recording.EditCmd)
	recording.RecordingCmd.AddCommand(recording.HistoryCmd)
	recording.RecordingCmd.AddCommand(recording.ApproveCmd)
	recording.RecordingCmd.AddCommand(recording.DeleteCmd)
}
