package main

import "github.com/synthfhir/synthfhir/cmd"

func main() {
	cmd.Execute()
}
