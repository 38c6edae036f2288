package main

import (
	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
)

func main() {
	Execute()
}
