package main

import "loandash/cmd"

func main() {
	cmd.Execute()
}
