package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// migrations are applied in order, each one must be safe to run more than once
var migrations = []struct {
	name      string
	statement string
}{
	{
		name:      "postgis",
		statement: "create extension if not exists postgis",
	},
	{
		name: "mart",
		statement: "create table if not exists mart ( " +
			"id serial primary key, " +
			"base_date timestamptz not null, " +
			"mart_type varchar(32) not null, " +
			"mart_name varchar(128) not null unique, " +
			"loc geometry(Point, 4326) not null, " +
			"start_time timestamptz not null, " +
			"end_time timestamptz not null, " +
			"next_holiday timestamptz, " +
			"is_holiday boolean not null default false)",
	},
	{
		name:      "mart_type_index",
		statement: "create index if not exists mart_type_idx on mart (mart_type)",
	},
	{
		name:      "mart_loc_index",
		statement: "create index if not exists mart_loc_idx on mart using gist (loc)",
	},
}

// Migrate creates the tables and indexes required to store marts inside a single transaction
func Migrate(log *log.Logger, db *sqlx.DB) error {
	return Transact(log, db, func(tx *sqlx.Tx) error {
		for _, migration := range migrations {
			_, err := tx.Exec(migration.statement)
			if err != nil {
				return fmt.Errorf("error running migration %s '%s' error:%w", migration.name, migration.statement, err)
			}
			log.Printf("Applied migration %s", migration.name)
		}
		return nil
	})
}
