package main

import (
	"fmt"
	"os"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/cmd/gotoken/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if goToken.IsValidation(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
