package main

import "github.com/squisty/bayesian-CO2/internal/cli"

func main() {
	cli.Execute()
}
