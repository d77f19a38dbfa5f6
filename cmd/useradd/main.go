// Command useradd creates an active PLMS user in the credential store.
//
//	useradd -name tech1 -role technician [-email a@b.c] [-d dsn]
//
// The password is read from the terminal without echo, or from the first
// line of stdin when stdin is not a terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/dmitrijs2005/plms/internal/cryptox"
	"github.com/dmitrijs2005/plms/internal/flagx"
	"github.com/dmitrijs2005/plms/internal/server/config"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/dmitrijs2005/plms/internal/server/repositories/repomanager"
)

type options struct {
	dsn   string
	name  string
	email string
	role  models.Role
}

func parseOptions(args []string) (*options, error) {
	defaults := &config.Config{}
	defaults.LoadDefaults()
	dsn := defaults.DatabaseDSN
	flagx.EnvString("PLMS_DATABASE_DSN", &dsn)

	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	o := &options{}
	fs.StringVar(&o.dsn, "d", dsn, "database DSN")
	fs.StringVar(&o.name, "name", "", "user name")
	fs.StringVar(&o.email, "email", "", "e-mail address")
	role := fs.String("role", string(models.RoleUser), "admin | manager | technician | user")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	o.name = strings.TrimSpace(o.name)
	if o.name == "" {
		return nil, errors.New("-name is required")
	}
	if o.role = models.ParseRole(*role); o.role == models.RoleUnknown {
		return nil, fmt.Errorf("unknown role %q", *role)
	}
	return o, nil
}

func readPassword(in *os.File, w io.Writer) ([]byte, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(w, "Password: ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(w)
		return pw, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// createUser hashes password and stores the user, running migrations first
// so a fresh database works.
func createUser(ctx context.Context, o *options, password []byte) (*models.User, error) {
	hash, err := cryptox.HashPassword(password, cryptox.DefaultCost)
	if err != nil {
		return nil, err
	}

	db, m, err := repomanager.Open(ctx, o.dsn, 5*time.Second)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return m.Users(db).Create(ctx, &models.User{
		Name:         o.name,
		PasswordHash: hash,
		Email:        strings.TrimSpace(o.email),
		Role:         o.role,
		Active:       true,
	})
}

func main() {
	o, err := parseOptions(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	pw, err := readPassword(os.Stdin, os.Stderr)
	if err != nil {
		log.Fatalf("reading password: %v", err)
	}
	defer cryptox.Wipe(pw)

	u, err := createUser(context.Background(), o, pw)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("created user %s (%s) with id %s\n", u.Name, u.Role, u.ID)
}
