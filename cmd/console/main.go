package main

import "github.com/sactel/admin-console/internal/cli"

func main() {
	cli.Execute()
}
