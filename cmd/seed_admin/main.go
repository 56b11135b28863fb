// seed_admin carga correos autorizados (invitaciones) en la base de datos.
//
// Uso:
//
//	go run ./cmd/seed_admin admin@empresa.com
//	go run ./cmd/seed_admin -file autorizados.csv
//
// El archivo tiene una línea por correo: "correo[,rol]". Rol vacío = USER.
// Acepta exportaciones de Excel en ISO-8859-1; las líneas con # se ignoran.
// Los correos pasados como argumento se autorizan como ADMIN.
package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/infrastructure/postgres"
	"github.com/jhoicas/cotizador/pkg/config"
	"github.com/jhoicas/cotizador/pkg/logger"
)

const invitedBy = "seed_admin"

func main() {
	file := flag.String("file", "", "archivo con correo[,rol] por línea")
	flag.Parse()

	var invites []entity.Invitation
	for _, email := range flag.Args() {
		invites = append(invites, entity.Invitation{Email: normalizeEmail(email), Role: entity.RoleAdmin})
	}
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir archivo: %v\n", err)
			os.Exit(1)
		}
		parsed, err := parseInvitations(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer archivo: %v\n", err)
			os.Exit(1)
		}
		invites = append(invites, parsed...)
	}
	if len(invites) == 0 {
		fmt.Fprintln(os.Stderr, "Uso: seed_admin [-file autorizados.csv] [correo ...]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_admin"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	repo := postgres.NewInvitationRepository(pool)
	for i := range invites {
		inv := invites[i]
		inv.InvitedBy = invitedBy
		if err := repo.Save(ctx, &inv); err != nil {
			log.Fatal().Err(err).Str("email", inv.Email).Msg("guardar invitación")
		}
		log.Info().Str("email", inv.Email).Str("role", string(inv.Role)).Msg("correo autorizado")
	}
	log.Info().Int("total", len(invites)).Msg("listo")
}

// parseInvitations lee "correo[,rol]" por línea. Si el contenido no es UTF-8 válido se decodifica como ISO-8859-1.
func parseInvitations(r io.Reader) ([]entity.Invitation, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	var out []entity.Invitation
	seen := make(map[string]bool)
	sc := bufio.NewScanner(src)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		emailPart, rolePart, _ := strings.Cut(line, ",")
		if i := strings.IndexByte(emailPart, ';'); i >= 0 {
			// Excel en español separa con punto y coma
			emailPart, rolePart = emailPart[:i], emailPart[i+1:]
		}
		email := normalizeEmail(emailPart)
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("línea %d: correo inválido %q", n, emailPart)
		}
		role := entity.RoleUser
		if strings.TrimSpace(rolePart) != "" {
			role = entity.ParseRole(rolePart)
			if !role.Valid() {
				return nil, fmt.Errorf("línea %d: rol inválido %q", n, strings.TrimSpace(rolePart))
			}
		}
		if seen[email] {
			continue
		}
		seen[email] = true
		out = append(out, entity.Invitation{Email: email, Role: role})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
