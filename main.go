package main

import "github.com/Digital-Shane/tvrename/internal/cmd"

func main() {
	cmd.Execute()
}
