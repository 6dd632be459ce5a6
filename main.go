package main

import "github.com/spendguard/spendguard/cmd"

func main() {
	cmd.Execute()
}
