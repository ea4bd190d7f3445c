package main

import "github.com/MeKo-Tech/planetgen/internal/cmd"

func main() {
	cmd.Execute()
}
