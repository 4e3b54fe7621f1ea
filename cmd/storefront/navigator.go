package main

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// printNavigator "navigates" by printing the target for the shopper to open.
type printNavigator struct {
	mu  sync.Mutex
	out io.Writer
}

func (n *printNavigator) Navigate(_ context.Context, target string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.out, "\nOpen this link in your browser:\n  %s\n", target)
	return err
}
