package main

import "github.com/uyouii/splash-energy/cli"

func main() {
	cli.Execute()
}
