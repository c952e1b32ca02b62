// token emite un JWT firmado con JWT_SECRET para llamar a la API cuando la autenticación está activa.
//
// Uso: go run ./cmd/token -sub web-frontend
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/expense-tracker-api/pkg/config"
	"github.com/jhoicas/expense-tracker-api/pkg/jwt"
)

func main() {
	sub := flag.String("sub", "web-frontend", "subject del token (identifica al cliente)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if !cfg.JWT.Enabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no está definido")
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *sub, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
