package main

import "github.com/jakexks/go-license-collector/cmd"

func main() {
	cmd.Execute()
}
