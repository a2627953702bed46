package main

import "github.com/ValentinKolb/binser/cmd"

func main() {
	cmd.Execute()
}
