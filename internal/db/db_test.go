package db_test

import (
	"context"
	"fmt"
	"testing"

	dbfs "github.com/permitdesk/permitdesk/db"
	"github.com/permitdesk/permitdesk/internal/db"
)

func openTestDB(t *testing.T, name string) *db.DB {
	t.Helper()
	d, err := db.New(context.Background(), fmt.Sprintf("file:%s?mode=memory&cache=shared", name), nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestNewAndPing(t *testing.T) {
	d := openTestDB(t, "db_new")
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("Ping error: %v", err)
	}
	if d.GetConn() == nil {
		t.Fatalf("expected underlying connection")
	}
}

func TestExecAndQuery(t *testing.T) {
	d := openTestDB(t, "db_exec")
	ctx := context.Background()

	if _, err := d.Exec(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)`); err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	res, err := d.Exec(ctx, `INSERT INTO t (v) VALUES (?), (?)`, "a", "b")
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 2 {
		t.Fatalf("expected 2 rows affected, got %d", n)
	}

	var v string
	if err := d.QueryRow(ctx, `SELECT v FROM t WHERE id = ?`, 1).Scan(&v); err != nil {
		t.Fatalf("QueryRow error: %v", err)
	}
	if v != "a" {
		t.Fatalf("unexpected value %q", v)
	}

	rows, err := d.QueryRows(ctx, `SELECT v FROM t ORDER BY id`)
	if err != nil {
		t.Fatalf("QueryRows error: %v", err)
	}
	defer rows.Close()
	var got []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			t.Fatalf("scan error: %v", err)
		}
		got = append(got, s)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows error: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected rows: %v", got)
	}
}

func TestMigrate(t *testing.T) {
	d := openTestDB(t, "db_migrate")
	ctx := context.Background()

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}

	// schema is in place
	for _, table := range []string{"users", "permit_packages", "package_documents", "settings"} {
		var name string
		err := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}

	var applied int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied == 0 {
		t.Fatalf("expected recorded migrations")
	}

	// running again is a no-op
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("second Migrate error: %v", err)
	}
	var again int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&again); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if again != applied {
		t.Fatalf("expected idempotent migrations, %d != %d", again, applied)
	}
}
