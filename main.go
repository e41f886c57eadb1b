package main

import "github.com/atticfs/attic/cmd/attic"

func main() { attic.Execute() }
