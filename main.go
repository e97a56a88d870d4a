package main

import (
	cmd "github.com/rohmanhakim/site-parser/internal/cli"
)

func main() {
	cmd.Execute()
}
