// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Printer is a utility class to output data from the system
//
//go:generate mockgen -source print.go -destination print_mock.go -package utils
type Printer interface {
	Print() error
	Close()
}

type Printers struct {
	printers []Printer
}

// Print runs all printers and returns the combined errors.
func (ps *Printers) Print() error {
	var err error
	for _, p := range ps.printers {
		err = errors.CombineErrors(err, p.Print())
	}
	return err
}

func (ps *Printers) Close() {
	for _, p := range ps.printers {
		p.Close()
	}
}

func NewPrinters() *Printers {
	return &Printers{[]Printer{}}
}

func NewCustomPrinters(p []Printer) *Printers {
	return &Printers{p}
}

func (ps *Printers) AddPrinter(p Printer) *Printers {
	ps.printers = append(ps.printers, p)
	return ps
}

// PrinterToWriter writes to any io.Writer
// Wrap f, returns a string to be printed
type PrinterToWriter struct {
	w io.Writer
	f func() string
}

func (p *PrinterToWriter) Print() error {
	_, err := fmt.Fprintln(p.w, p.f())
	return err
}

func (p *PrinterToWriter) Close() {}

func NewPrinterToWriter(w io.Writer, f func() string) *PrinterToWriter {
	return &PrinterToWriter{w, f}
}

func NewPrinterToConsole(f func() string) *PrinterToWriter {
	return &PrinterToWriter{os.Stdout, f}
}

func (ps *Printers) AddPrinterToWriter(w io.Writer, f func() string) *Printers {
	return ps.AddPrinter(NewPrinterToWriter(w, f))
}

func (ps *Printers) AddPrinterToConsole(isDisabled bool, f func() string) *Printers {
	if isDisabled {
		return ps
	}
	return ps.AddPrinter(NewPrinterToConsole(f))
}

// PrinterToTable renders rows as a text table.
// Wrap f, returns the rows to be printed
type PrinterToTable struct {
	w      io.Writer
	title  string
	header table.Row
	f      func() [][]any
}

func (p *PrinterToTable) Print() error {
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.SetStyle(table.StyleLight)
	if p.title != "" {
		t.SetTitle(p.title)
	}
	t.AppendHeader(p.header)
	for _, row := range p.f() {
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

func (p *PrinterToTable) Close() {}

func NewPrinterToTable(w io.Writer, title string, header []any, f func() [][]any) *PrinterToTable {
	return &PrinterToTable{w, title, header, f}
}

func (ps *Printers) AddPrinterToTable(w io.Writer, title string, header []any, f func() [][]any) *Printers {
	return ps.AddPrinter(NewPrinterToTable(w, title, header, f))
}

// PrinterToFile appends to a File
// Wrap f, returns a string to be printed
type PrinterToFile struct {
	filepath string
	f        func() string
}

func (p *PrinterToFile) Print() (err error) {
	file, err := os.OpenFile(p.filepath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "unable to print to file %s", p.filepath)
	}
	defer func() {
		err = errors.CombineErrors(err, file.Close())
	}()
	_, err = file.WriteString(p.f())
	return err
}

func (p *PrinterToFile) Close() {}

func NewPrinterToFile(filepath string, f func() string) *PrinterToFile {
	return &PrinterToFile{filepath, f}
}

func (ps *Printers) AddPrinterToFile(filepath string, f func() string) *Printers {
	if filepath != "" {
		ps.AddPrinter(NewPrinterToFile(filepath, f))
	}
	return ps
}

// PrinterToDb writes by inserting rows into DB
// Wrap f, returns an array of values to be inserted
type PrinterToDb struct {
	db     *sqlx.DB
	insert string
	f      func() [][]any
}

func (p *PrinterToDb) Print() (err error) {
	// one transaction per print for bulk inserts
	tx, err := p.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "unable to begin a transaction")
	}
	stmt, err := tx.Preparex(p.insert)
	if err != nil {
		return errors.CombineErrors(errors.Wrapf(err, "unable to prepare statement %s", p.insert), tx.Rollback())
	}
	defer func() {
		err = errors.CombineErrors(err, stmt.Close())
	}()

	for _, value := range p.f() {
		if _, err = stmt.Exec(value...); err != nil {
			return errors.CombineErrors(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

func (p *PrinterToDb) Close() {
	if err := p.db.Close(); err != nil {
		panic(err)
	}
}

// DB exposes the connection, e.g. for reading back printed rows.
func (p *PrinterToDb) DB() *sqlx.DB {
	return p.db
}

// NewPrinterToDb wraps an open connection.
func NewPrinterToDb(db *sqlx.DB, insert string, f func() [][]any) *PrinterToDb {
	return &PrinterToDb{db, insert, f}
}

// NewPrinterToSqlite3 opens (or creates) the sqlite3 database conn and
// executes the create statement before any row is printed.
func NewPrinterToSqlite3(conn string, create string, insert string, f func() [][]any) (*PrinterToDb, error) {
	db, err := sqlx.Open("sqlite3", conn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open connection to sqlite3 %s", conn)
	}
	// a single connection keeps in-memory databases alive between statements
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(create); err != nil {
		return nil, errors.CombineErrors(errors.Wrapf(err, "failed to create table on %s", conn), db.Close())
	}
	// inserts do not wait for the disk
	if _, err = db.Exec("PRAGMA synchronous = OFF"); err != nil {
		return nil, errors.CombineErrors(err, db.Close())
	}
	return &PrinterToDb{db, insert, f}, nil
}

func (ps *Printers) AddPrinterToSqlite3(conn string, create string, insert string, f func() [][]any) (*Printers, error) {
	if conn == "" {
		return ps, nil
	}
	p, err := NewPrinterToSqlite3(conn, create, insert, f)
	if err != nil {
		return ps, err
	}
	return ps.AddPrinter(p), nil
}
