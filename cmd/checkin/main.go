// Command checkin runs the event registration and QR check-in service.
package main

import (
	"fmt"
	"os"

	_ "qrcheckin/docs"
)

// @title QR Check-in API
// @version 1.0
// @description Event registration and QR code check-in.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
