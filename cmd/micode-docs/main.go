package main

import "github.com/jjmejia/micode-manager-sub000/internal/cli"

func main() {
	cli.Execute()
}
