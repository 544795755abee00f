package main

import "linkup/cmd/linkupctl/cmd"

func main() {
	cmd.Execute()
}
