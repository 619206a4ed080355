package db

import "testing"

func TestConnString(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")

	if got := ConnString(""); got != "" {
		t.Errorf("ConnString with nothing set = %q, want empty", got)
	}
	if got := ConnString("postgres://u@h/db"); got != "postgres://u@h/db" {
		t.Errorf("DATABASE_URL not preferred: %q", got)
	}

	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "dress")
	t.Setenv("DB_NAME", "studio")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")

	want := "host=localhost port=5432 user=dress password=pw dbname=studio sslmode=disable"
	if got := ConnString(""); got != want {
		t.Errorf("ConnString = %q, want %q", got, want)
	}
}
