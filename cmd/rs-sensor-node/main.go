package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/autopeer-io/roadsense/cmd/rs-sensor-node/app"
)

func main() {
	app.NewApp().Run()
}
