package main

import "fieldvoice/cmd/client/cmd"

func main() {
	cmd.Execute()
}
