package main

import (
	_ "github.com/eleven-am/cortexview/docs"
	"github.com/eleven-am/cortexview/internal/bootstrap"
)

// @title CortexView API
// @version 1.0.0
// @description Window capture, change detection and AI analysis service

// @BasePath /v1

func main() {
	bootstrap.Run()
}
