package main

import "github.com/osa911/contact-api/internal/cli"

func main() {
	cli.Execute()
}
