// main is the command-line front end of the restaurant directory. It talks
// to the REST backend configured under "backend" in the config file.
//
//	restaurants --config=config/local.yaml list --filter=sushi
//	restaurants add --name="Pizza Palace" --email=info@pizzapalace.com ...
//	restaurants edit 3 --city=Boston
//	restaurants delete 3
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
