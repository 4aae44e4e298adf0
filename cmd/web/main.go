package main

import "github.com/LocalStoryMap/Oz-Backand/internal/app"

func main() {
	app.Run()
}
