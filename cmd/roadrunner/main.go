package main

import (
	"github.com/hhkbp2/roadrunner"
	"github.com/hhkbp2/roadrunner/binding"
)

func main() {
	binding.AddBindings()
	roadrunner.Main()
}
