package main

import "github.com/archivekit/go-itss/cmd"

func main() {
	cmd.Execute()
}
