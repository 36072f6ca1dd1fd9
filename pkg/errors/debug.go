package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Report flattens an error chain into loggable fields. When the chain bottoms
// out in a Postgres driver error the database detail rides along, so a failed
// order insert logs its constraint instead of a bare "internal error".
type Report struct {
	Top   string   `json:"top"`
	Code  Code     `json:"code,omitempty"`
	Chain []string `json:"chain,omitempty"`

	DB *DBDetail `json:"db,omitempty"`
}

// DBDetail carries the Postgres-specific error fields.
type DBDetail struct {
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Describe builds the loggable report for an error chain.
func Describe(err error) Report {
	if err == nil {
		return Report{}
	}

	report := Report{Top: err.Error()}
	if typed := As(err); typed != nil {
		report.Code = typed.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		report.Chain = append(report.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	report.DB = databaseDetail(err)
	return report
}

func databaseDetail(err error) *DBDetail {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &DBDetail{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &DBDetail{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}
