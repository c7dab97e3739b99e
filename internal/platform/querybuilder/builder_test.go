package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("*").
		From("payments").
		Where(Eq("email", "a@b.tg"), IsNull("deleted_at")).
		OrderBy("created_at DESC").
		Limit(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM payments WHERE email = $1 AND deleted_at IS NULL ORDER BY created_at DESC LIMIT 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "a@b.tg" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	if _, _, err := Select("*").ToSQL(); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("payments").
		Columns("public_id", "reference", "amount").
		Values("pay-1", "trx-5001", int64(1500)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO payments (public_id, reference, amount) VALUES ($1, $2, $3) RETURNING *"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "pay-1" || args[1] != "trx-5001" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RejectsColumnValueMismatch(t *testing.T) {
	_, _, err := InsertInto("payments").
		Columns("reference", "amount").
		Values("trx-5001").
		ToSQL()
	if err == nil {
		t.Fatalf("expected error for mismatched row length")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("payments").
		Set("status", "approved").
		SetExpr("updated_at", "NOW()").
		Where(Eq("reference", "trx-5001"), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE payments SET status = $1, updated_at = NOW() WHERE reference = $2 AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "approved" || args[1] != "trx-5001" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_SetExprWithArgs(t *testing.T) {
	query, args, err := Update("payments").
		SetExpr("amount", "amount + ?", int64(250)).
		Where(Eq("reference", "trx-5001")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE payments SET amount = amount + $1 WHERE reference = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(250) {
		t.Fatalf("unexpected args: %+v", args)
	}
}
