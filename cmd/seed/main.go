// seed carga insumos iniciales en la API de stock a partir de un CSV
// (planillas exportadas desde Excel, separador ";" y codificación ISO-8859-1 o UTF-8).
//
// Uso: go run ./cmd/seed [ruta/insumos.csv]
// Por defecto busca insumos.csv en el directorio actual.
// Columnas: nombre;cantidad;unidad;precio_unitario (la primera fila es encabezado).
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/restapi"
	"github.com/jhoicas/gestion-stock/pkg/config"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

func main() {
	csvPath := "insumos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	forms, err := leerInsumos(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	client := restapi.NewClient(restapi.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Retries: cfg.API.Retries,
		Logger:  log.Named("restapi"),
	})
	uc := usecase.NewInsumoUseCase(restapi.NewInsumoRepository(client))

	ctx := context.Background()
	creados, fallidos := 0, 0
	for i, form := range forms {
		in, err := uc.Create(ctx, form)
		if err != nil {
			fallidos++
			log.Error().Err(err).Int("fila", i+2).Str("nombre", form.Nombre).Msg("insumo no cargado")
			continue
		}
		creados++
		log.Info().Int64("id", in.ID).Str("nombre", in.Nombre).Msg("insumo cargado")
	}

	fmt.Printf("Insumos cargados: %d, con error: %d\n", creados, fallidos)
	if fallidos > 0 {
		os.Exit(1)
	}
}

// leerInsumos decodifica el CSV. Si el contenido no es UTF-8 válido se asume ISO-8859-1.
func leerInsumos(r io.Reader) ([]dto.InsumoForm, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4096)
	var src io.Reader = br
	if !utf8.Valid(head) {
		src = transform.NewReader(br, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []dto.InsumoForm
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		form := dto.InsumoForm{Nombre: strings.TrimSpace(row[0])}
		if len(row) > 1 {
			form.Cantidad = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			form.Unidad = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			form.PrecioUnitario = strings.TrimSpace(row[3])
		}
		out = append(out, form)
	}
	return out, nil
}
