package main

import "starcos/cmd/starcosctl"

func main() {
	starcosctl.Execute()
}
