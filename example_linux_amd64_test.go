package jitload_test

import (
	"os"

	"github.com/pboyd/jitload"
)

func ExampleLoader_Run() {
	buf, err := jitload.WriteProgram(int(os.Stdout.Fd()), []byte("asdf zuyt...?\n"))
	if err != nil {
		panic(err)
	}

	err = jitload.New().Run(buf)
	if err != nil {
		panic(err)
	}
	// Output: asdf zuyt...?
}
