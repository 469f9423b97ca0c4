package main

import "github.com/KaramelBytes/heartlens/cmd"

func main() {
	cmd.Execute()
}
