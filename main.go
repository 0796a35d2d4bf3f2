package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/pilgrim-api/cmd/app"
)

// @title           Pilgrim administration API
// @version         1.0
// @description     Pilgrim records, accommodation, transport and bulk assignment for the admin dashboard.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
