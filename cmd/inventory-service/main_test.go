package main

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestRootCommandTree(t *testing.T) {
	c := qt.New(t)
	root := newRootCommand()

	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"seed"},
	} {
		cmd, _, err := root.Find(path)
		c.Assert(err, qt.IsNil, qt.Commentf("path %v", path))
		c.Assert(cmd.Name(), qt.Equals, path[len(path)-1])
	}

	serve, _, _ := root.Find([]string{"serve"})
	c.Assert(serve.Flags().Lookup("addr"), qt.IsNotNil)
	c.Assert(serve.Flags().Lookup("database-url"), qt.IsNotNil)

	up, _, _ := root.Find([]string{"migrate", "up"})
	c.Assert(up.Flags().Lookup("database-url"), qt.IsNotNil)

	seed, _, _ := root.Find([]string{"seed"})
	c.Assert(seed.Flags().Lookup("owner"), qt.IsNotNil)
	c.Assert(seed.Flags().Lookup("count").DefValue, qt.Equals, "25")
}
