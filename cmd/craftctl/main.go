package main

import (
	"craftctl/internal/cli/cmd"
)

func main() {
	cmd.Execute()
}
