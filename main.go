package main

import (
	"flag"
	"strings"

	"go.uber.org/fx"

	"github.com/joshuarp/idgen-api/internal/app"
)

var defaultBin string

func selectedModules(binValue string) []fx.Option {
	selected := strings.TrimSpace(strings.ToLower(binValue))

	switch selected {
	case "generator", "generate", "gen":
		return []fx.Option{
			app.AuthModule(),
			app.GeneratorModule(),
		}
	case "parser", "parse":
		return []fx.Option{
			app.AuthModule(),
			app.ParserModule(),
		}
	default:
		return []fx.Option{
			app.AuthModule(),
			app.GeneratorModule(),
			app.ParserModule(),
		}
	}
}

func main() {
	bin := flag.String("bin", defaultBin, "select module binary: generator|parser (default: all)")
	flag.Parse()

	app.New(*bin, selectedModules(*bin)...).Run()
}
