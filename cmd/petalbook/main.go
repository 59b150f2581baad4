package main

import (
	"github.com/smallbiznis/petalbook/internal/server"
	"go.uber.org/fx"
)

func main() {
	fx.New(server.Module).Run()
}
