package main

import "userhub_backend/internal/app"

func main() {
	app.Run()
}
