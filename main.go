package main

import "github.com/wkalt/usmap/cmd"

func main() {
	cmd.Execute()
}
