package main

import "github.com/amirhosseinghanipour/warden/cmd/warden/cmd"

func main() {
	cmd.Execute()
}
