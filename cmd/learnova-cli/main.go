package main

import "github.com/nfrund/learnova/cmd/learnova-cli/cmd"

func main() {
	cmd.Execute()
}
