package main

import (
	"github.com/sirupsen/logrus"

	"taskhive/internal/config"
	"taskhive/internal/server"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		logrus.Fatalf("server initialization failed: %v", err)
	}

	s.Run()
}
