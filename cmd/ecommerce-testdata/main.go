package main

import "github.com/vasiliy-maslov/ecommerce-testdata/internal/cli"

func main() {
	cli.Execute()
}
