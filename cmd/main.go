// cmd/main.go
package main

import (
	"sn-inventory-api/app"
)

// @title           SN Inventory API
// @version         1.0
// @description     Internal server inventory API with dual-token authentication.

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
