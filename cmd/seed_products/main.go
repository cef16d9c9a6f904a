// seed_products genera un script SQL para poblar el catálogo de productos de
// una empresa a partir de un CSV exportado de hojas de cálculo legadas
// (codificación ISO-8859-1, separador ';').
//
// Columnas esperadas: codigo;nombre;descripcion;costo;precio;stock;stock_minimo
//
// Uso: go run ./cmd/seed_products <company_id> [ruta/productos.csv]
// Por defecto busca productos.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/seed_products.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_products <company_id> [productos.csv]")
		os.Exit(1)
	}
	companyID := os.Args[1]
	csvPath := "productos.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Los exportes de Excel en es-CO vienen en ISO-8859-1, no UTF-8.
	reader := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = 7

	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	if len(records) > 0 && strings.EqualFold(records[0][0], "codigo") {
		records = records[1:] // saltar cabecera
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "seed_products.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de productos\n")
	out.WriteString("-- Generado desde " + filepath.Base(csvPath) + "\n\n")

	count := 0
	for _, rec := range records {
		code := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		if code == "" || name == "" {
			continue
		}
		fmt.Fprintf(out, "INSERT INTO products (id, company_id, code, name, description, cost_price, sale_price, stock, min_stock, active, created_at, updated_at)\n")
		fmt.Fprintf(out, "VALUES (gen_random_uuid(), '%s', '%s', '%s', '%s', %s, %s, %s, %s, true, now(), now())\n",
			escapeSQL(companyID), escapeSQL(code), escapeSQL(name), escapeSQL(strings.TrimSpace(rec[2])),
			numericOrZero(rec[3]), numericOrZero(rec[4]), numericOrZero(rec[5]), numericOrZero(rec[6]),
		)
		out.WriteString("ON CONFLICT (company_id, code) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description;\n")
		count++
	}

	fmt.Printf("Generado %s: %d productos\n", outPath, count)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// numericOrZero normaliza números con coma decimal ("12.500,50" -> "12500.50").
func numericOrZero(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return s
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
