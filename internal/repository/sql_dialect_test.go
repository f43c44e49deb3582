package repository

import (
	"testing"
)

func TestDayBucketExprByDialectSQLite(t *testing.T) {
	got := dayBucketExprByDialect("sqlite", "orders.created_at")
	want := "CAST(date(orders.created_at) AS TEXT)"
	if got != want {
		t.Fatalf("sqlite day expr mismatch, want %s got %s", want, got)
	}
}

func TestDayBucketExprByDialectPostgres(t *testing.T) {
	got := dayBucketExprByDialect("postgres", "orders.created_at")
	want := "to_char(orders.created_at, 'YYYY-MM-DD')"
	if got != want {
		t.Fatalf("postgres day expr mismatch, want %s got %s", want, got)
	}
}

func TestBuildLikeConditionByDialect(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("postgres", "name", " ", "promo_code")
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	if condition != "name ILIKE ? OR promo_code ILIKE ?" {
		t.Fatalf("unexpected condition: %s", condition)
	}

	condition, _ = buildLikeCondition(nil, "username")
	if condition != "username LIKE ?" {
		t.Fatalf("nil db should fall back to sqlite LIKE, got %s", condition)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%test%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%test%" {
			t.Fatalf("args[%d] want %%test%% got %v", idx, arg)
		}
	}
}
