package main

import "github.com/raviX007/natural-language-wine-search/internal/cli"

func main() {
	cli.Execute()
}
