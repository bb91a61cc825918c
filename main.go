package main

import "github.com/TebanMT/POC-SENTRY/cmd"

func main() {
	cmd.Execute()
}
