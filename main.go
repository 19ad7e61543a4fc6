package main

import "userapi/cmd"

func main() {
	cmd.Execute()
}
