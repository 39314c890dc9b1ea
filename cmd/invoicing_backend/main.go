package main

//go:generate swag init -g cmd/invoicing_backend/main.go -o ../docs -d ../../ --parseInternal

// @title Invoicing Backend API
// @version 1.0
// @description Invoices, clients, products and payments for small businesses.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	Execute()
}
