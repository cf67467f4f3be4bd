package main

import (
	"fmt"
	"os"

	"github.com/leoyin88/user-api/cmd/cli/root"
	_ "github.com/leoyin88/user-api/cmd/cli/users"
)

func main() {
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
