package main

import "pokeflix/cmd"

func main() {
	cmd.Execute()
}
