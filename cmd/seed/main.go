// seed carga usuarios y clientes en el almacenamiento configurado (STORAGE_BACKEND)
// a partir de un YAML de semilla y/o del CSV de clientes exportado de la hoja de cálculo.
//
// Uso: go run ./cmd/seed [-yaml seed.yaml] [-csv clientes.csv] [-encoding windows-1252] [-demo]
// Los registros que ya existen se omiten.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/visitas-api/internal/app"
	"github.com/jhoicas/visitas-api/internal/infrastructure/seed"
	"github.com/jhoicas/visitas-api/pkg/config"
	"github.com/jhoicas/visitas-api/pkg/logger"
)

func main() {
	yamlPath := flag.String("yaml", "", "documento YAML con users y clients")
	csvPath := flag.String("csv", "", "CSV de clientes (cabecera: empresa, contacto, telefono, tipo)")
	encoding := flag.String("encoding", seed.EncodingWindows1252, "codificación del CSV: utf-8, iso-8859-1, windows-1252")
	demo := flag.Bool("demo", false, "cargar los datos de demostración (admin/123, juan/123)")
	flag.Parse()

	if *yamlPath == "" && *csvPath == "" && !*demo {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "visitas-seed", Output: os.Stderr})

	ctx := context.Background()
	container, err := app.Build(ctx, cfg, app.ConsoleAnnouncer(os.Stderr), log.Zerolog())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Inicializar almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer container.Close()

	importer := seed.NewImporter(container.Verifier, container.Records)
	var total seed.Result

	docs := []*seed.Document{}
	if *demo {
		docs = append(docs, seed.Demo())
	}
	if *yamlPath != "" {
		doc, err := seed.Load(*yamlPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		docs = append(docs, doc)
	}
	for _, doc := range docs {
		res, err := importer.Apply(ctx, doc)
		total = add(total, res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Importar: %v\n", err)
			os.Exit(1)
		}
	}

	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
			os.Exit(1)
		}
		list, err := seed.ReadClientsCSV(f, *encoding)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		created, skipped, err := importer.ImportClients(ctx, list)
		total = add(total, seed.Result{Clients: created, Skipped: skipped})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Importar clientes: %v\n", err)
			os.Exit(1)
		}
	}

	// Sin usuarios cargados, el arranque crea el administrador inicial como en el servidor.
	if _, err := container.Bootstrap.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Administrador inicial: %v\n", err)
	}

	fmt.Printf("Backend %s: %d usuarios, %d clientes creados; %d omitidos (ya existían)\n",
		container.Backend.Name, total.Users, total.Clients, total.Skipped)
}

func add(a, b seed.Result) seed.Result {
	return seed.Result{Users: a.Users + b.Users, Clients: a.Clients + b.Clients, Skipped: a.Skipped + b.Skipped}
}
