//go:build tinygo && baremetal

package main

import (
	"fancywatch/app"
	"fancywatch/hal"
)

func main() {
	h := hal.New()
	if err := app.Main(h, app.DefaultConfig()); err != nil {
		hal.Logf(h.Logger(), hal.LevelError, "%v", err)
	}
	select {}
}
