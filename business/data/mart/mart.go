// Package mart provides CRUD functionality for resolved store records
package mart

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/martcast/martcast/foundation/database"
)

// Mart is the resolved state of one store on BaseDate.
// MartName is unique across all mart types and is the key records are upserted on.
type Mart struct {
	BaseDate    time.Time  `db:"base_date" json:"base_date" validate:"required"`
	MartType    string     `db:"mart_type" json:"mart_type" validate:"required,max=32"`
	MartName    string     `db:"mart_name" json:"mart_name" validate:"required,max=128"`
	Longitude   float64    `db:"longitude" json:"longitude" validate:"required,longitude"`
	Latitude    float64    `db:"latitude" json:"latitude" validate:"required,latitude"`
	StartTime   time.Time  `db:"start_time" json:"start_time" validate:"required"`
	EndTime     time.Time  `db:"end_time" json:"end_time" validate:"required,gtefield=StartTime"`
	NextHoliday *time.Time `db:"next_holiday" json:"next_holiday"`
	IsHoliday   bool       `db:"is_holiday" json:"is_holiday"`
}

func (m Mart) String() string {
	nextHoliday := ""
	if m.NextHoliday != nil {
		nextHoliday = m.NextHoliday.Format("2006-01-02")
	}
	return fmt.Sprintf("Mart type:%s, name:%s, loc:(%f %f), open:%s-%s, isHoliday:%t, nextHoliday:%s",
		m.MartType, m.MartName, m.Longitude, m.Latitude,
		m.StartTime.Format("15:04"), m.EndTime.Format("15:04"), m.IsHoliday, nextHoliday)
}

var validate = validator.New()

// Validate checks Mart has the fields required to be stored
func (m *Mart) Validate() error {
	return validate.Struct(m)
}

// point encodes the location as well known text, longitude first, keeping every digit of the coordinates
func (m *Mart) point() string {
	return "POINT(" + strconv.FormatFloat(m.Longitude, 'f', -1, 64) + " " +
		strconv.FormatFloat(m.Latitude, 'f', -1, 64) + ")"
}

// upsertStatement inserts a mart or replaces the existing mart with the same mart_name
const upsertStatement = "insert into mart ( " +
	"base_date, " +
	"mart_type, " +
	"mart_name, " +
	"loc, " +
	"start_time, " +
	"end_time, " +
	"next_holiday, " +
	"is_holiday) " +
	"values (" +
	":base_date, " +
	":mart_type, " +
	":mart_name, " +
	"ST_GeomFromText(:loc, 4326), " +
	":start_time, " +
	":end_time, " +
	":next_holiday, " +
	":is_holiday) " +
	"on conflict (mart_name) do update set " +
	"base_date = excluded.base_date, " +
	"mart_type = excluded.mart_type, " +
	"loc = excluded.loc, " +
	"start_time = excluded.start_time, " +
	"end_time = excluded.end_time, " +
	"next_holiday = excluded.next_holiday, " +
	"is_holiday = excluded.is_holiday"

// selectColumns reads a mart row back into Mart, decoding the location
const selectColumns = "select base_date, mart_type, mart_name, " +
	"ST_X(loc) as longitude, ST_Y(loc) as latitude, " +
	"start_time, end_time, next_holiday, is_holiday from mart "

// upsertArgs builds the named arguments for upsertStatement
func upsertArgs(m *Mart) map[string]interface{} {
	return map[string]interface{}{
		"base_date":    m.BaseDate,
		"mart_type":    m.MartType,
		"mart_name":    m.MartName,
		"loc":          m.point(),
		"start_time":   m.StartTime,
		"end_time":     m.EndTime,
		"next_holiday": m.NextHoliday,
		"is_holiday":   m.IsHoliday,
	}
}

// UpsertMarts saves each Mart, replacing any existing record with the same MartName
func UpsertMarts(tx *sqlx.Tx, marts []*Mart) error {
	for _, m := range marts {
		_, err := tx.NamedExec(upsertStatement, upsertArgs(m))
		if err != nil {
			return fmt.Errorf("unable to upsert mart %s, error: %w", m.MartName, err)
		}
	}
	return nil
}

// GetMart retrieves the Mart named martName
func GetMart(db *sqlx.DB, martName string) (*Mart, error) {
	query := selectColumns + "where mart_name = $1"
	m := Mart{}
	err := db.Get(&m, db.Rebind(query), martName)
	return &m, err
}

// GetAllMarts retrieves all Marts ordered by type and name
func GetAllMarts(db *sqlx.DB) ([]Mart, error) {
	query := selectColumns + "order by mart_type, mart_name"
	var results []Mart
	err := db.Select(&results, query)
	return results, err
}

// GetMartsByType retrieves all Marts with one of martTypes
func GetMartsByType(db *sqlx.DB, martTypes []string) ([]*Mart, error) {
	statementString := selectColumns + "where mart_type in (:mart_types) order by mart_name"
	rows, err := database.QueryNamed(db, statementString, map[string]interface{}{
		"mart_types": martTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve mart rows, error: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	marts := make([]*Mart, 0)
	for rows.Next() {
		m := Mart{}
		err = rows.StructScan(&m)
		if err != nil {
			return nil, err
		}
		marts = append(marts, &m)
	}
	return marts, rows.Err()
}

// GetMartsClosedOn retrieves all Marts recorded as closed on day, as of their last resolution
func GetMartsClosedOn(db *sqlx.DB, day time.Time) ([]Mart, error) {
	query := selectColumns + "where (is_holiday and base_date::date = $1::date) " +
		"or next_holiday::date = $1::date order by mart_name"
	var results []Mart
	err := db.Select(&results, query, day.Format("2006-01-02"))
	return results, err
}
