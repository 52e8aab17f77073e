package main

import "github.com/warriorguo/pipeline/cli/cmd"

func main() {
	cmd.Execute()
}
