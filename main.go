package main

import "github.com/jsphweid/beatframe/cmd"

func main() {
	cmd.Execute()
}
