package main

import "github.com/ooddb/ooddb/cmd"

func main() {
	cmd.Execute()
}
