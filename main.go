package main

import "github.com/KaramelBytes/scatterdiff/cmd"

func main() {
	cmd.Execute()
}
