package main

import "github.com/salusapp/salus_backend/cmd"

func main() {
	cmd.Execute()
}
