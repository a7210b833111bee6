package database

import (
	"atlas-cards/retry"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Migrator applies a schema migration against the provided database handle
type Migrator func(db *gorm.DB) error

// Configuration holds connection settings assembled by configurators
type Configuration struct {
	dsn        string
	migrations []Migrator
}

// Configurator mutates a Configuration prior to connecting
type Configurator func(c *Configuration)

// SetMigrations registers migrations to run after the connection is established
func SetMigrations(ms ...Migrator) Configurator {
	return func(c *Configuration) {
		c.migrations = append(c.migrations, ms...)
	}
}

// DSNBuilder assembles a postgres DSN from its parts
type DSNBuilder struct {
	user         string
	password     string
	host         string
	port         int
	databaseName string
}

// NewDSNBuilder creates an empty DSN builder
func NewDSNBuilder() *DSNBuilder {
	return &DSNBuilder{}
}

// SetUser sets the database user
func (b *DSNBuilder) SetUser(user string) *DSNBuilder {
	b.user = user
	return b
}

// SetPassword sets the database password
func (b *DSNBuilder) SetPassword(password string) *DSNBuilder {
	b.password = password
	return b
}

// SetHost sets the database host
func (b *DSNBuilder) SetHost(host string) *DSNBuilder {
	b.host = host
	return b
}

// SetPort sets the database port
func (b *DSNBuilder) SetPort(port int) *DSNBuilder {
	b.port = port
	return b
}

// SetDatabaseName sets the database name
func (b *DSNBuilder) SetDatabaseName(name string) *DSNBuilder {
	b.databaseName = name
	return b
}

// Build produces the DSN string
func (b *DSNBuilder) Build() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		b.host, b.user, b.password, b.databaseName, b.port)
}

func dsnFromEnvironment() string {
	port, _ := strconv.Atoi(os.Getenv("DB_PORT"))
	return NewDSNBuilder().
		SetUser(os.Getenv("DB_USER")).
		SetPassword(os.Getenv("DB_PASSWORD")).
		SetHost(os.Getenv("DB_HOST")).
		SetPort(port).
		SetDatabaseName(os.Getenv("DB_NAME")).
		Build()
}

// Connect establishes the database connection, retrying while the database
// comes up, then applies the registered migrations. Failure is fatal.
func Connect(l logrus.FieldLogger, configurators ...Configurator) *gorm.DB {
	c := &Configuration{
		dsn:        dsnFromEnvironment(),
		migrations: make([]Migrator, 0),
	}
	for _, configurator := range configurators {
		configurator(c)
	}

	var db *gorm.DB
	tryToConnect := func(attempt int) (bool, error) {
		var err error
		db, err = gorm.Open(postgres.Open(c.dsn), &gorm.Config{})
		if err != nil {
			l.WithError(err).WithField("attempt", attempt).Warn("Unable to connect to database.")
			return true, err
		}
		return false, nil
	}
	err := retry.Try(tryToConnect, 10)
	if err != nil {
		l.WithError(err).Fatal("Failed to connect to database.")
	}

	for _, m := range c.migrations {
		if err = m(db); err != nil {
			l.WithError(err).Fatal("Failed to migrate database.")
		}
	}

	return db
}
