package main

import "github.com/frahmantamala/income-expense-tracker/cmd"

func main() {
	cmd.Execute()
}
