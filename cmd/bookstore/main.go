// Command bookstore runs the bookstore marketplace API.
//
// @title                       Bookstore API
// @version                     1.0
// @description                 Marketplace backend for buyers and sellers of books.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
