package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", meta.HTTPStatus)
	}
}

func TestWrapKeepsCauseAndCode(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := fmt.Errorf("outer: %w", Wrap(CodeDependency, cause, "db: list products"))

	typed := As(err)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", typed.Code())
	}
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if !IsCode(err, CodeDependency) || IsCode(err, CodeNotFound) {
		t.Fatal("IsCode mismatch")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeStateConflict, "category in use").WithDetails(map[string]any{"count": 3})
	details, ok := err.Details().(map[string]any)
	if !ok || details["count"] != 3 {
		t.Fatalf("unexpected details %v", err.Details())
	}
}

func TestDumpExtractsPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key", TableName: "categories"}
	dump := Dump(Wrap(CodeConflict, pgErr, "insert category"))

	if dump.Code != CodeConflict {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if dump.PGCode != "23505" || dump.PGConstraint != "categories_name_key" {
		t.Fatalf("unexpected pg fields %+v", dump)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d", len(dump.Chain))
	}
	if _, ok := dump.Fields()["pg_code"]; !ok {
		t.Fatal("expected pg_code in fields")
	}
}

func TestNilErrorHelpers(t *testing.T) {
	var e *Error
	if e.Code() != CodeInternal || e.Message() != "" || e.Error() != "" {
		t.Fatal("nil *Error should be inert")
	}
	if As(nil) != nil {
		t.Fatal("As(nil) should be nil")
	}
}
