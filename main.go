package main

import "github.com/endorses/pcapview/cmd"

func main() {
	cmd.Execute()
}
