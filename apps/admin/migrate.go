package main

import (
	"github.com/jmoiron/sqlx"

	"github.com/darasahq/darasa/storage/database"
)

// mockable
var gooseRunFunc = func(command string, db *sqlx.DB, args ...string) error {
	return database.RunGoose(command, db.DB, args...)
}

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, arguments...)
}
