package main

import (
	"context"
	"log"

	"github.com/nsqlite/nsqliteseed/internal/nsqliteseed"
)

func main() {
	if err := nsqliteseed.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
